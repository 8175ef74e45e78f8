// internal/page/dynamic.go
package page

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/prospect/internal/auth"
)

// DynamicSource drives a headless Chrome instance. Profile pages render most
// of their sections client-side and lazily, so this is the source that makes
// scroll nudges meaningful: scrolling to the middle of the page forces lazy
// sections to mount before the next extraction attempt.
type DynamicSource struct {
	url      string
	headless bool
	session  *auth.SessionData

	// set once the browser is up
	browserCtx context.Context
	cancels    []context.CancelFunc
	navigated  bool
}

// DynamicOption configures a DynamicSource.
type DynamicOption func(*DynamicSource)

// WithVisibleBrowser shows the browser window, for debugging.
func WithVisibleBrowser() DynamicOption {
	return func(d *DynamicSource) { d.headless = false }
}

// WithDynamicSession injects a stored login session before navigation.
func WithDynamicSession(session *auth.SessionData) DynamicOption {
	return func(d *DynamicSource) { d.session = session }
}

// NewDynamicSource creates a source that renders the given profile URL in
// headless Chrome. The browser starts on the first Document call and lives
// until Close, so retries and nudges act on one continuous page.
func NewDynamicSource(pageURL string, opts ...DynamicOption) *DynamicSource {
	d := &DynamicSource{
		url:      pageURL,
		headless: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DynamicSource) ensureBrowser(ctx context.Context) error {
	if d.browserCtx != nil {
		return nil
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", d.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.UserAgent(defaultUserAgent),
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	d.browserCtx = browserCtx
	d.cancels = []context.CancelFunc{browserCancel, allocCancel}

	log.Debug().Bool("headless", d.headless).Msg("Browser started")
	return nil
}

// sessionCookies converts a stored session into chromedp cookie params.
func (d *DynamicSource) sessionCookies() []*network.CookieParam {
	if d.session == nil {
		return nil
	}
	var params []*network.CookieParam
	for _, c := range d.session.Cookies {
		cookie := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		}
		if c.Expires > 0 {
			expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			cookie.Expires = &expires
		}
		switch c.SameSite {
		case "Strict":
			cookie.SameSite = network.CookieSameSiteStrict
		case "Lax":
			cookie.SameSite = network.CookieSameSiteLax
		case "None":
			cookie.SameSite = network.CookieSameSiteNone
		}
		params = append(params, cookie)
	}
	return params
}

// Document renders the page and returns a goquery document over the live
// DOM. The first call navigates; later calls re-capture the current DOM so
// that sections mounted by a nudge are visible.
func (d *DynamicSource) Document(ctx context.Context) (*goquery.Document, string, error) {
	if err := d.ensureBrowser(ctx); err != nil {
		return nil, "", err
	}

	var tasks []chromedp.Action
	if !d.navigated {
		tasks = append(tasks, network.Enable())
		if cookies := d.sessionCookies(); len(cookies) > 0 {
			tasks = append(tasks, network.SetCookies(cookies))
		}
		tasks = append(tasks,
			chromedp.Navigate(d.url),
			chromedp.WaitReady("body", chromedp.ByQuery),
			// Let initial scripts run before the first capture.
			chromedp.Sleep(300*time.Millisecond),
		)
	}

	var htmlContent, location string
	tasks = append(tasks,
		chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
		chromedp.Location(&location),
	)

	if err := chromedp.Run(d.browserCtx, tasks...); err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		return nil, "", fmt.Errorf("page render failed: %w", err)
	}
	d.navigated = true

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse rendered HTML: %w", err)
	}

	log.Debug().Str("url", location).Int("html_bytes", len(htmlContent)).Msg("Dynamic capture completed")
	return doc, location, nil
}

// Nudge scrolls to the middle of the page and back to the top, giving lazy
// sections a chance to mount.
func (d *DynamicSource) Nudge(ctx context.Context) error {
	if d.browserCtx == nil {
		return fmt.Errorf("nudge before first document")
	}

	err := chromedp.Run(d.browserCtx,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight / 2)`, nil),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.Evaluate(`window.scrollTo(0, 0)`, nil),
		chromedp.Sleep(200*time.Millisecond),
	)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("scroll nudge failed: %w", err)
	}

	log.Debug().Msg("Scroll nudge performed")
	return nil
}

// Close shuts the browser down.
func (d *DynamicSource) Close() {
	for _, cancel := range d.cancels {
		cancel()
	}
	d.browserCtx = nil
	d.cancels = nil
	d.navigated = false
}
