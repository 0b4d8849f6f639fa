package scraper

import (
	"fmt"
	"strings"

	"couponworker/pkg/errors"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// FieldExtractor parses one listing element into a ListingCandidate
type FieldExtractor struct {
	origin string
}

// NewFieldExtractor creates an extractor that rewrites relative links
// against the given site origin
func NewFieldExtractor(origin string) *FieldExtractor {
	return &FieldExtractor{origin: strings.TrimRight(origin, "/")}
}

// descriptionStrategies is the ordered fallback chain for the course
// description. The description feeds categorization, so the last
// resort (handled in Extract) is the title itself.
var descriptionStrategies = []textStrategy{
	func(s *goquery.Selection) string {
		return trimText(s.Find("p.description").First())
	},
	func(s *goquery.Selection) string {
		return trimText(classContains(s, "description"))
	},
	func(s *goquery.Selection) string {
		return trimText(s.Find("p").First())
	},
	func(s *goquery.Selection) string {
		return trimText(blockClassContains(s, "desc", "about", "info"))
	},
}

// expiryStrategies is the ordered fallback chain for the raw expiry
// text. No match means the listing has no expiry.
var expiryStrategies = []textStrategy{
	func(s *goquery.Selection) string {
		return trimText(s.Find(".expiry-date").First())
	},
	func(s *goquery.Selection) string {
		return trimText(classContains(s, "expiry", "expires", "valid"))
	},
	func(s *goquery.Selection) string {
		return firstTextNode(s, func(text string) bool {
			lowered := strings.ToLower(text)
			return strings.Contains(lowered, "expires") || strings.Contains(lowered, "valid until")
		})
	},
}

// Extract parses a single listing element. A missing title or link, or
// any internal fault, yields an extraction error so the caller skips
// this one listing and keeps crawling.
func (e *FieldExtractor) Extract(s *goquery.Selection) (candidate *ListingCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			candidate = nil
			err = errors.NewExtraction("listing", fmt.Sprintf("panic during extraction: %v", r), nil)
		}
	}()

	title := trimText(s.Find("h3, h4, h5").First())
	if title == "" {
		return nil, errors.NewExtraction("listing", "no title heading found", nil)
	}

	link := strings.TrimSpace(s.Find("a").First().AttrOr("href", ""))
	if link == "" {
		return nil, errors.NewExtraction("listing", "no usable link for "+title, nil)
	}
	if !strings.HasPrefix(link, "http") {
		link = e.origin + link
	}

	description := firstMatch(s, descriptionStrategies)
	if description == "" {
		description = title
	}

	price := firstTextNode(s, func(text string) bool {
		return strings.Contains(text, "$") || strings.Contains(strings.ToLower(text), "free")
	})
	if price == "" {
		price = "N/A"
	}

	return &ListingCandidate{
		Title:         title,
		Description:   description,
		RawPrice:      price,
		RawExpiryText: firstMatch(s, expiryStrategies),
		DetailURL:     link,
	}, nil
}

// trimText returns the trimmed text of a selection, empty for nil or
// empty selections
func trimText(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(s.Text())
}

// classContains returns the first descendant whose class attribute
// case-insensitively contains any of the given words
func classContains(s *goquery.Selection, words ...string) *goquery.Selection {
	return scanClasses(s.Find("[class]"), words)
}

// blockClassContains is classContains restricted to div elements
func blockClassContains(s *goquery.Selection, words ...string) *goquery.Selection {
	return scanClasses(s.Find("div[class]"), words)
}

func scanClasses(candidates *goquery.Selection, words []string) *goquery.Selection {
	var found *goquery.Selection
	candidates.EachWithBreak(func(_ int, el *goquery.Selection) bool {
		class := strings.ToLower(el.AttrOr("class", ""))
		for _, word := range words {
			if strings.Contains(class, word) {
				found = el
				return false
			}
		}
		return true
	})
	return found
}

// firstTextNode walks the element's subtree in document order and
// returns the first trimmed text node matching the predicate
func firstTextNode(s *goquery.Selection, match func(string) bool) string {
	for _, node := range s.Nodes {
		if text, ok := walkTextNodes(node, match); ok {
			return text
		}
	}
	return ""
}

func walkTextNodes(n *html.Node, match func(string) bool) (string, bool) {
	if n.Type == html.TextNode {
		trimmed := strings.TrimSpace(n.Data)
		if trimmed != "" && match(trimmed) {
			return trimmed, true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text, ok := walkTextNodes(c, match); ok {
			return text, true
		}
	}
	return "", false
}
