package scraper

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// mockRenderer implements renderer.PageRenderer for testing. Pages
// maps URLs to HTML; anything else errors like a navigation failure.
type mockRenderer struct {
	pages    map[string]string
	rendered []string
	closed   bool
}

func newMockRenderer() *mockRenderer {
	return &mockRenderer{pages: make(map[string]string)}
}

func (m *mockRenderer) Render(ctx context.Context, url string) (io.Reader, error) {
	m.rendered = append(m.rendered, url)
	html, ok := m.pages[url]
	if !ok {
		return nil, fmt.Errorf("navigation failed for %s", url)
	}
	return strings.NewReader(html), nil
}

func (m *mockRenderer) RenderScrolled(ctx context.Context, url string) (io.Reader, error) {
	return m.Render(ctx, url)
}

func (m *mockRenderer) Close() error {
	m.closed = true
	return nil
}
