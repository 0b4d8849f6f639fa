package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFindsCourseLink(t *testing.T) {
	r := newMockRenderer()
	r.pages["https://real.discount/go/abc"] = `
		<html><body>
			<a href="/home">Home</a>
			<a href="https://www.udemy.com/course/hacking/?couponCode=FREE2025&utm=x">Enroll</a>
		</body></html>
	`

	resolver := NewDetailResolver(r, "udemy.com")

	course := resolver.Resolve(context.Background(), ListingCandidate{
		Title:     "Intro to Ethical Hacking",
		DetailURL: "https://real.discount/go/abc",
	})

	assert.Equal(t, "https://www.udemy.com/course/hacking/?couponCode=FREE2025&utm=x", course.CanonicalURL)
	assert.Equal(t, "FREE2025", course.AccessCode)
}

func TestResolveNoCourseLinkFallsBack(t *testing.T) {
	r := newMockRenderer()
	r.pages["https://real.discount/go/abc"] = `<html><body><a href="/home">Home</a></body></html>`

	resolver := NewDetailResolver(r, "udemy.com")

	course := resolver.Resolve(context.Background(), ListingCandidate{
		DetailURL: "https://real.discount/go/abc",
	})

	assert.Equal(t, "https://real.discount/go/abc", course.CanonicalURL)
	assert.Empty(t, course.AccessCode)
}

func TestResolveRetriesWithWWWHost(t *testing.T) {
	r := newMockRenderer()
	// Only the www form of the host resolves
	r.pages["https://www.real.discount/go/abc"] = `
		<html><body><a href="https://www.udemy.com/course/x/">Enroll</a></body></html>
	`

	resolver := NewDetailResolver(r, "udemy.com")

	course := resolver.Resolve(context.Background(), ListingCandidate{
		DetailURL: "https://real.discount/go/abc",
	})

	assert.Equal(t, []string{
		"https://real.discount/go/abc",
		"https://www.real.discount/go/abc",
	}, r.rendered)
	assert.Equal(t, "https://www.udemy.com/course/x/", course.CanonicalURL)
}

func TestResolveBothHostFormsFail(t *testing.T) {
	r := newMockRenderer()

	resolver := NewDetailResolver(r, "udemy.com")

	course := resolver.Resolve(context.Background(), ListingCandidate{
		DetailURL: "https://real.discount/go/abc",
	})

	// Exactly one retry, then degrade to the detail URL
	assert.Len(t, r.rendered, 2)
	assert.Equal(t, "https://real.discount/go/abc", course.CanonicalURL)
	assert.Empty(t, course.AccessCode)
}

func TestResolveNoRetryForWWWHost(t *testing.T) {
	r := newMockRenderer()

	resolver := NewDetailResolver(r, "udemy.com")

	course := resolver.Resolve(context.Background(), ListingCandidate{
		DetailURL: "https://www.real.discount/go/abc",
	})

	assert.Len(t, r.rendered, 1)
	assert.Equal(t, "https://www.real.discount/go/abc", course.CanonicalURL)
}

func TestExtractAccessCode(t *testing.T) {
	assert.Equal(t, "FREE2025",
		ExtractAccessCode("https://www.udemy.com/course/x/?couponCode=FREE2025&utm=x"))
	assert.Equal(t, "LASTPARAM",
		ExtractAccessCode("https://www.udemy.com/course/x/?couponCode=LASTPARAM"))
	assert.Empty(t, ExtractAccessCode("https://www.udemy.com/course/x/"))
}

func TestNormalizeExpiry(t *testing.T) {
	assert.Equal(t, "March 15, 2025", NormalizeExpiry("2025-03-15"))
	assert.Equal(t, "March 05, 2025", NormalizeExpiry("2025-03-05"))
	assert.Equal(t, "Ends soon", NormalizeExpiry("Ends soon"))
	assert.Empty(t, NormalizeExpiry(""))
}
