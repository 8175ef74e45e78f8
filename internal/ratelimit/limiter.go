// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces outbound fetches. Profile pages all live on one host, but
// avatars and company assets come from CDN hosts, so limiting is per host.
type Limiter interface {
	// Wait blocks until a request for the given URL can proceed.
	// If the context is cancelled first, an error is returned.
	Wait(ctx context.Context, urlStr string) error

	// Allow reports whether a request for the given URL can proceed
	// immediately without blocking.
	Allow(urlStr string) bool
}

// HostLimiter provides per-host token bucket rate limiting. Fetching
// profiles too fast gets a session flagged, so the defaults stay well
// under typical thresholds.
type HostLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	perHost  rate.Limit
	burst    int
}

// NewHostLimiter creates a limiter with the specified per-host rate.
func NewHostLimiter(requestsPerSecond float64, burst int) *HostLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 0.5
	}
	if burst <= 0 {
		burst = 2
	}

	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until the request for the given URL can proceed.
func (hl *HostLimiter) Wait(ctx context.Context, urlStr string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	host := extractHost(urlStr)
	if host == "" {
		// Invalid URL, let it proceed (will fail elsewhere)
		return nil
	}

	return hl.limiter(host).Wait(ctx)
}

// Allow reports whether a request can proceed immediately.
func (hl *HostLimiter) Allow(urlStr string) bool {
	host := extractHost(urlStr)
	if host == "" {
		return true
	}
	return hl.limiter(host).Allow()
}

// limiter returns or creates a rate limiter for the given host.
func (hl *HostLimiter) limiter(host string) *rate.Limiter {
	hl.mu.RLock()
	lim, exists := hl.limiters[host]
	hl.mu.RUnlock()

	if exists {
		return lim
	}

	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, exists := hl.limiters[host]; exists {
		return lim
	}

	lim = rate.NewLimiter(hl.perHost, hl.burst)
	hl.limiters[host] = lim
	return lim
}

// SetLimit updates the rate limit for a specific host.
func (hl *HostLimiter) SetLimit(host string, requestsPerSecond float64, burst int) {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, exists := hl.limiters[host]; exists {
		lim.SetLimit(rate.Limit(requestsPerSecond))
		lim.SetBurst(burst)
	} else {
		hl.limiters[host] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

func extractHost(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}
