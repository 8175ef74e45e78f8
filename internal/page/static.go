// internal/page/static.go
package page

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/prospect/internal/auth"
	"github.com/law-makers/prospect/internal/ratelimit"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

// StaticSource fetches a profile page over plain HTTP and parses it with
// goquery. It is fast but sees only server-rendered markup; lazy sections
// never appear, so Nudge is a no-op and the orchestrator's retries simply
// re-fetch.
type StaticSource struct {
	client  *http.Client
	limiter ratelimit.Limiter
	url     string
	headers map[string]string
}

// StaticOption configures a StaticSource.
type StaticOption func(*StaticSource)

// WithSession injects a stored login session's cookies and headers.
func WithSession(session *auth.SessionData) StaticOption {
	return func(s *StaticSource) {
		if session == nil {
			return
		}
		jar, err := cookiejar.New(nil)
		if err != nil {
			return
		}
		parsedURL, err := url.Parse(s.url)
		if err != nil {
			return
		}
		var cookies []*http.Cookie
		for _, c := range session.Cookies {
			cookies = append(cookies, &http.Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Expires:  time.Unix(int64(c.Expires), 0),
				HttpOnly: c.HTTPOnly,
				Secure:   c.Secure,
			})
		}
		jar.SetCookies(parsedURL, cookies)
		s.client.Jar = jar

		for key, value := range session.Headers {
			s.headers[key] = value
		}
		log.Debug().Int("cookies", len(cookies)).Msg("Session cookies injected")
	}
}

// WithLimiter paces fetches through the given limiter.
func WithLimiter(l ratelimit.Limiter) StaticOption {
	return func(s *StaticSource) { s.limiter = l }
}

// WithHTTPClient replaces the default client, for tests.
func WithHTTPClient(c *http.Client) StaticOption {
	return func(s *StaticSource) { s.client = c }
}

// NewStaticSource creates a source for the given profile URL with a
// keep-alive HTTP client.
func NewStaticSource(pageURL string, opts ...StaticOption) *StaticSource {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	s := &StaticSource{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		url:     pageURL,
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Document fetches and parses the page. Each call is a fresh fetch.
func (s *StaticSource) Document(ctx context.Context) (*goquery.Document, string, error) {
	start := time.Now()

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, s.url); err != nil {
			return nil, "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for key, value := range s.headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, s.url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Redirects (auth walls, vanity URL changes) move the final URL.
	finalURL := s.url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	log.Debug().
		Str("url", finalURL).
		Int("status", resp.StatusCode).
		Int64("response_time_ms", time.Since(start).Milliseconds()).
		Msg("Static fetch completed")

	return doc, finalURL, nil
}

// Nudge is a no-op: there is no live page to scroll.
func (s *StaticSource) Nudge(ctx context.Context) error {
	return nil
}
