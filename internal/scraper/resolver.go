package scraper

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"couponworker/helpers"
	"couponworker/logger"
	"couponworker/services/renderer"

	"github.com/PuerkitoBio/goquery"
)

// DetailResolver follows a listing's detail page to find the true
// course-host URL and the embedded access code. Resolution never fails
// a candidate: anything going wrong degrades to the detail URL with no
// access code.
type DetailResolver struct {
	renderer   renderer.PageRenderer
	courseHost string
	log        *logger.Logger
}

// NewDetailResolver creates a resolver looking for links to courseHost
func NewDetailResolver(r renderer.PageRenderer, courseHost string) *DetailResolver {
	return &DetailResolver{
		renderer:   r,
		courseHost: strings.ToLower(courseHost),
		log:        logger.ForResolver(),
	}
}

// Resolve renders the candidate's detail page and fills in the
// canonical URL, access code and normalized expiry
func (r *DetailResolver) Resolve(ctx context.Context, candidate ListingCandidate) ResolvedCourse {
	course := ResolvedCourse{
		ListingCandidate: candidate,
		CanonicalURL:     candidate.DetailURL,
		ExpiryDate:       NormalizeExpiry(candidate.RawExpiryText),
	}

	body, err := r.renderDetail(ctx, candidate.DetailURL)
	if err != nil {
		r.log.Warn().
			Str("detail_url", candidate.DetailURL).
			Err(err).
			Msg("Detail page unreachable, keeping detail URL")
		return course
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		r.log.Warn().
			Str("detail_url", candidate.DetailURL).
			Err(err).
			Msg("Detail page unparseable, keeping detail URL")
		return course
	}

	if link := r.findCourseLink(doc); link != "" {
		course.CanonicalURL = link
		course.AccessCode = ExtractAccessCode(link)
	} else {
		r.log.Debug().
			Str("title", candidate.Title).
			Msg("No course-host link on detail page")
	}

	return course
}

// renderDetail fetches the detail page, retrying exactly once with the
// www-prefixed host when the primary form fails
func (r *DetailResolver) renderDetail(ctx context.Context, detailURL string) (io.Reader, error) {
	body, err := r.renderer.Render(ctx, detailURL)
	if err == nil {
		return body, nil
	}

	alt, ok := alternateHostURL(detailURL)
	if !ok {
		return nil, err
	}

	r.log.Debug().
		Str("detail_url", detailURL).
		Str("alternate", alt).
		Msg("Primary host failed, retrying with www form")

	return r.renderer.Render(ctx, alt)
}

// alternateHostURL returns the www-prefixed form of the URL's host, or
// false when the URL already carries it or cannot be parsed
func alternateHostURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	if strings.HasPrefix(u.Host, "www.") {
		return "", false
	}
	u.Host = "www." + u.Host
	return u.String(), true
}

// findCourseLink returns the first outbound link whose host is the
// course host or one of its subdomains
func (r *DetailResolver) findCourseLink(doc *goquery.Document) string {
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return true
		}
		u, err := url.Parse(href)
		if err != nil || u.Host == "" {
			return true
		}
		host := strings.ToLower(u.Hostname())
		if host == r.courseHost || strings.HasSuffix(host, "."+r.courseHost) {
			found = href
			return false
		}
		return true
	})
	return found
}

// ExtractAccessCode pulls the couponCode query value out of a resolved
// link, empty when the parameter is absent
func ExtractAccessCode(link string) string {
	part, err := helpers.GetSplitPart(link, "couponCode=", 1)
	if err != nil {
		return ""
	}
	return strings.Split(part, "&")[0]
}

// NormalizeExpiry reformats an ISO calendar date to its long human
// form. Anything that is not an ISO date passes through unchanged;
// empty input stays empty.
func NormalizeExpiry(raw string) string {
	if raw == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return raw
	}
	return t.Format("January 02, 2006")
}
