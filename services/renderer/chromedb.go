package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"couponworker/helpers"
	"couponworker/logger"
	"couponworker/services/cache"

	"github.com/go-resty/resty/v2"
)

// scrollScript loads a page and scrolls to the bottom until the
// document height stops growing or the scroll ceiling is reached,
// then returns the rendered content.
const scrollScript = `module.exports = async ({ page, context }) => {
	await page.setViewport({ width: 1280, height: 800 });
	await page.goto(context.url, { waitUntil: 'networkidle2', timeout: 45000 });
	let lastHeight = await page.evaluate('document.body.scrollHeight');
	for (let i = 0; i < context.maxScrolls; i++) {
		await page.evaluate('window.scrollTo(0, document.body.scrollHeight)');
		await new Promise(resolve => setTimeout(resolve, context.pauseMs));
		const newHeight = await page.evaluate('document.body.scrollHeight');
		if (newHeight === lastHeight) {
			break;
		}
		lastHeight = newHeight;
	}
	return await page.content();
};`

// ChromeDBRenderer implements PageRenderer against a ChromeDB
// (browserless) HTTP endpoint
type ChromeDBRenderer struct {
	addr        string
	client      *resty.Client
	cacheSvc    cache.CacheService
	blockKey    string
	blockTime   time.Duration
	scrollPause time.Duration
	maxScrolls  int
	log         *logger.Logger
}

// NewChromeDBRenderer creates a new ChromeDB-backed renderer
func NewChromeDBRenderer(addr string, cacheSvc cache.CacheService, scrollPause time.Duration, maxScrolls int, blockTime time.Duration) *ChromeDBRenderer {
	client := resty.New().
		SetTimeout(90 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "CouponWorker/1.0")

	return &ChromeDBRenderer{
		addr:        strings.TrimRight(addr, "/"),
		client:      client,
		cacheSvc:    cacheSvc,
		blockKey:    "render_blocked",
		blockTime:   blockTime,
		scrollPause: scrollPause,
		maxScrolls:  maxScrolls,
		log:         logger.ForRenderer(),
	}
}

// Render renders a single page. A direct HTTP fetch is attempted first
// since most detail pages do not need a browser; ChromeDB is the
// fallback for pages that render client-side.
func (r *ChromeDBRenderer) Render(ctx context.Context, url string) (io.Reader, error) {
	if err := r.checkBlocked(); err != nil {
		return nil, err
	}

	if body, err := helpers.FetchWithRandomHeaders(url); err == nil {
		return body, nil
	} else if strings.HasPrefix(err.Error(), "rate limited") {
		r.setBlocked()
		return nil, err
	}

	payload := map[string]interface{}{
		"url": url,
		"gotoOptions": map[string]interface{}{
			"waitUntil": "networkidle2",
			"timeout":   45000,
		},
	}

	return r.post(ctx, "/content", payload)
}

// RenderScrolled renders a page after the bounded scroll-to-load loop
func (r *ChromeDBRenderer) RenderScrolled(ctx context.Context, url string) (io.Reader, error) {
	if err := r.checkBlocked(); err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"code": scrollScript,
		"context": map[string]interface{}{
			"url":        url,
			"maxScrolls": r.maxScrolls,
			"pauseMs":    r.scrollPause.Milliseconds(),
		},
	}

	return r.post(ctx, "/function", payload)
}

// Close releases the rendering session. The ChromeDB server owns the
// browser; nothing is held client-side.
func (r *ChromeDBRenderer) Close() error {
	return nil
}

func (r *ChromeDBRenderer) checkBlocked() error {
	if r.cacheSvc == nil {
		return nil
	}
	if _, err := r.cacheSvc.Get(r.blockKey); err == nil {
		return fmt.Errorf("rendering blocked for %s after rate limiting", r.blockTime)
	}
	return nil
}

func (r *ChromeDBRenderer) setBlocked() {
	if r.cacheSvc == nil {
		return
	}
	value := []byte(fmt.Sprintf("%d", int(r.blockTime.Seconds())))
	if err := r.cacheSvc.Set(r.blockKey, value, r.blockTime); err != nil {
		r.log.Warn().Err(err).Msg("Failed to set render block key")
	}
}

func (r *ChromeDBRenderer) post(ctx context.Context, endpoint string, payload map[string]interface{}) (io.Reader, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(r.addr + endpoint)
	if err != nil {
		return nil, fmt.Errorf("chromedb %s request failed: %w", endpoint, err)
	}

	if resp.StatusCode() != http.StatusOK {
		if resp.StatusCode() == http.StatusTooManyRequests {
			r.setBlocked()
		}
		return nil, fmt.Errorf("chromedb %s returned status %d", endpoint, resp.StatusCode())
	}

	return r.processResponse(resp.Body())
}

// processResponse accepts either raw HTML or a JSON envelope carrying
// the HTML in a data/result/content field
func (r *ChromeDBRenderer) processResponse(data []byte) (io.Reader, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty response from chromedb")
	}

	content := string(data)
	if strings.HasPrefix(strings.TrimSpace(content), "{") {
		var envelope map[string]interface{}
		if err := json.Unmarshal(data, &envelope); err == nil {
			for _, field := range []string{"data", "result", "content", "html"} {
				if html, ok := envelope[field].(string); ok && html != "" {
					content = html
					break
				}
			}
		}
	}

	lowered := strings.ToLower(content)
	if !strings.Contains(lowered, "<html") && !strings.Contains(lowered, "<body") {
		preview := content
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		r.log.Debug().Str("preview", preview).Msg("Response does not look like HTML")
		return nil, fmt.Errorf("invalid HTML response from chromedb (%d bytes)", len(content))
	}

	return bytes.NewReader([]byte(content)), nil
}
