package scraper

import (
	"context"

	"couponworker/config"
	"couponworker/logger"
	"couponworker/pkg/errors"
	"couponworker/services/renderer"

	"github.com/PuerkitoBio/goquery"
)

// SiteScraper implements CourseSource against the coupon listing site.
// Candidates are processed one at a time: a single shared browser
// session backs the renderer, and each candidate costs one detail-page
// load.
type SiteScraper struct {
	name       string
	listingURL string
	renderer   renderer.PageRenderer
	extractor  *FieldExtractor
	resolver   *DetailResolver
	rules      []config.CategoryRule
	log        *logger.Logger
}

// NewSiteScraper creates a scraper for the configured listing site
func NewSiteScraper(cfg config.Config, r renderer.PageRenderer, rules []config.CategoryRule) *SiteScraper {
	return &SiteScraper{
		name:       "real.discount",
		listingURL: cfg.ListingURL,
		renderer:   r,
		extractor:  NewFieldExtractor(cfg.SiteOrigin),
		resolver:   NewDetailResolver(r, cfg.CourseHost),
		rules:      rules,
		log:        logger.ForScraper(),
	}
}

// GetName returns the source's name for logging
func (s *SiteScraper) GetName() string {
	return s.name
}

// FetchCourses renders the listing page with lazy-load scrolling and
// walks every listing element carrying both a link and a heading. Only
// a listing-page render failure is returned as an error; per-listing
// faults are logged and skipped.
func (s *SiteScraper) FetchCourses(ctx context.Context) ([]ResolvedCourse, error) {
	body, err := s.renderer.RenderScrolled(ctx, s.listingURL)
	if err != nil {
		return nil, errors.NewRender("listing", "failed to render "+s.listingURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewRender("listing", "failed to parse listing page", err)
	}

	var courses []ResolvedCourse
	doc.Find("li").Each(func(_ int, sel *goquery.Selection) {
		// A course listing is an li holding both an anchor and a heading
		if sel.Find("a").Length() == 0 || sel.Find("h3, h4, h5").Length() == 0 {
			return
		}

		candidate, err := s.extractor.Extract(sel)
		if err != nil {
			s.log.Debug().Err(err).Msg("Skipping listing element")
			return
		}

		course := s.resolver.Resolve(ctx, *candidate)
		course.Category = Categorize(candidate.Title, candidate.Description, s.rules)
		courses = append(courses, course)
	})

	s.log.Info().
		Int("count", len(courses)).
		Msg("Listing scrape complete")

	return courses, nil
}
