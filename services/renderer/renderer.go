package renderer

import (
	"context"
	"io"
)

// PageRenderer represents a service that returns fully rendered HTML
// for a URL. A shared browser session backs the rendering, so callers
// must invoke it serially.
type PageRenderer interface {
	// Render renders a single page
	Render(ctx context.Context, url string) (io.Reader, error)

	// RenderScrolled renders a page after scrolling to the bottom to
	// trigger lazy loading, bounded by the configured scroll ceiling
	RenderScrolled(ctx context.Context, url string) (io.Reader, error)

	// Close releases the rendering session
	Close() error
}
