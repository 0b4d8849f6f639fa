package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingElement(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	sel := doc.Find("li")
	require.Equal(t, 1, sel.Length())
	return sel
}

func TestExtractFullListing(t *testing.T) {
	extractor := NewFieldExtractor("https://real.discount")

	sel := listingElement(t, `
		<li>
			<h3>Intro to Ethical Hacking</h3>
			<a href="/go/abc">Get coupon</a>
			<p class="description">penetration testing basics</p>
			<span class="price">$19.99 Free</span>
			<span class="expiry-date">2025-03-15</span>
		</li>
	`)

	candidate, err := extractor.Extract(sel)
	require.NoError(t, err)

	assert.Equal(t, "Intro to Ethical Hacking", candidate.Title)
	assert.Equal(t, "https://real.discount/go/abc", candidate.DetailURL)
	assert.Equal(t, "penetration testing basics", candidate.Description)
	assert.Equal(t, "$19.99 Free", candidate.RawPrice)
	assert.Equal(t, "2025-03-15", candidate.RawExpiryText)
}

func TestExtractSkipsWithoutTitle(t *testing.T) {
	extractor := NewFieldExtractor("https://real.discount")

	sel := listingElement(t, `<li><a href="/go/abc">link only</a></li>`)

	_, err := extractor.Extract(sel)
	assert.Error(t, err)
}

func TestExtractSkipsWithoutLink(t *testing.T) {
	extractor := NewFieldExtractor("https://real.discount")

	sel := listingElement(t, `<li><h3>No Link Course</h3></li>`)

	_, err := extractor.Extract(sel)
	assert.Error(t, err)
}

func TestExtractAbsoluteLinkKept(t *testing.T) {
	extractor := NewFieldExtractor("https://real.discount")

	sel := listingElement(t, `
		<li><h4>Course</h4><a href="https://other.site/offer/1">go</a></li>
	`)

	candidate, err := extractor.Extract(sel)
	require.NoError(t, err)
	assert.Equal(t, "https://other.site/offer/1", candidate.DetailURL)
}

func TestExtractDescriptionFallbackChain(t *testing.T) {
	extractor := NewFieldExtractor("https://real.discount")

	// Case-insensitive class match outranks the plain paragraph
	sel := listingElement(t, `
		<li>
			<h3>Course</h3>
			<a href="/go/1">go</a>
			<div class="card-Description">from the class match</div>
			<p>from the paragraph</p>
		</li>
	`)
	candidate, err := extractor.Extract(sel)
	require.NoError(t, err)
	assert.Equal(t, "from the class match", candidate.Description)

	// No description class at all: the first paragraph wins
	sel = listingElement(t, `
		<li>
			<h3>Course</h3>
			<a href="/go/1">go</a>
			<p>from the paragraph</p>
			<div class="about-box">from the about block</div>
		</li>
	`)
	candidate, err = extractor.Extract(sel)
	require.NoError(t, err)
	assert.Equal(t, "from the paragraph", candidate.Description)

	// No paragraph either: a div with a desc/about/info class
	sel = listingElement(t, `
		<li>
			<h3>Course</h3>
			<a href="/go/1">go</a>
			<div class="info-panel">from the info block</div>
		</li>
	`)
	candidate, err = extractor.Extract(sel)
	require.NoError(t, err)
	assert.Equal(t, "from the info block", candidate.Description)

	// Nothing matches: the title keeps categorization alive
	sel = listingElement(t, `
		<li><h3>Quantum Computing Basics</h3><a href="/go/1">go</a></li>
	`)
	candidate, err = extractor.Extract(sel)
	require.NoError(t, err)
	assert.Equal(t, "Quantum Computing Basics", candidate.Description)
}

func TestExtractPriceDefaults(t *testing.T) {
	extractor := NewFieldExtractor("https://real.discount")

	sel := listingElement(t, `
		<li><h3>Course</h3><a href="/go/1">go</a><span>no cost info here</span></li>
	`)
	candidate, err := extractor.Extract(sel)
	require.NoError(t, err)
	assert.Equal(t, "N/A", candidate.RawPrice)

	sel = listingElement(t, `
		<li><h3>Course</h3><a href="/go/1">go</a><span>FREE for a week</span></li>
	`)
	candidate, err = extractor.Extract(sel)
	require.NoError(t, err)
	assert.Equal(t, "FREE for a week", candidate.RawPrice)
}

func TestExtractExpiryFallbackChain(t *testing.T) {
	extractor := NewFieldExtractor("https://real.discount")

	// Class containing "valid"
	sel := listingElement(t, `
		<li>
			<h3>Course</h3>
			<a href="/go/1">go</a>
			<span class="valid-until">2025-12-01</span>
		</li>
	`)
	candidate, err := extractor.Extract(sel)
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", candidate.RawExpiryText)

	// Bare text node mentioning expiry
	sel = listingElement(t, `
		<li>
			<h3>Course</h3>
			<a href="/go/1">go</a>
			<span>Expires tomorrow!</span>
		</li>
	`)
	candidate, err = extractor.Extract(sel)
	require.NoError(t, err)
	assert.Equal(t, "Expires tomorrow!", candidate.RawExpiryText)

	// Nothing at all
	sel = listingElement(t, `
		<li><h3>Course</h3><a href="/go/1">go</a></li>
	`)
	candidate, err = extractor.Extract(sel)
	require.NoError(t, err)
	assert.Empty(t, candidate.RawExpiryText)
}

func TestExtractStaysInsideListing(t *testing.T) {
	// Lookups must not leak into sibling listings
	html := `
		<ul>
			<li id="first"><h3>First</h3><a href="/go/1">go</a></li>
			<li><h3>Second</h3><a href="/go/2">go</a><p class="description">second description</p></li>
		</ul>
	`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	extractor := NewFieldExtractor("https://real.discount")

	candidate, err := extractor.Extract(doc.Find("li#first"))
	require.NoError(t, err)
	assert.Equal(t, "First", candidate.Description, "description must not come from a sibling listing")
}
