package scraper

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// ListingCandidate is what the field extractor pulls out of a single
// listing element. Ephemeral; only the resolved form is kept.
type ListingCandidate struct {
	Title         string
	Description   string
	RawPrice      string
	RawExpiryText string
	DetailURL     string
}

// ResolvedCourse is a candidate after detail resolution and
// categorization, the unit passed to dedupe and composition.
type ResolvedCourse struct {
	ListingCandidate

	// CanonicalURL is the course-host URL when resolution succeeded,
	// the detail URL otherwise
	CanonicalURL string
	AccessCode   string
	ExpiryDate   string
	Category     string
}

// CourseSource retrieves discounted courses from a listing site
type CourseSource interface {
	// FetchCourses scrapes the listing page and resolves each candidate
	FetchCourses(ctx context.Context) ([]ResolvedCourse, error)

	// GetName returns the source's name for logging
	GetName() string
}

// textStrategy extracts one field from a listing element, returning
// empty when it does not apply. Strategies run in declared order and
// the first non-empty result wins.
type textStrategy func(*goquery.Selection) string

// firstMatch applies strategies in order and returns the first
// non-empty result
func firstMatch(s *goquery.Selection, strategies []textStrategy) string {
	for _, strategy := range strategies {
		if result := strategy(s); result != "" {
			return result
		}
	}
	return ""
}
