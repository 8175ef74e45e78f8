// Package urlutil handles canonicalization and identity for target profile URLs.
package urlutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// ProfilePathPrefix is the path prefix shared by every page in the target
// profile family. Anything else (feed, search, company pages) is not a
// profile page and extraction refuses to run on it.
const ProfilePathPrefix = "/in/"

// ValidateURL performs basic scheme and host validation.
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// IsProfileURL reports whether urlStr belongs to the target profile family.
func IsProfileURL(urlStr string) bool {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	return strings.HasPrefix(parsed.Path, ProfilePathPrefix) &&
		strings.TrimPrefix(parsed.Path, ProfilePathPrefix) != ""
}

// Canonical strips query, fragment, and trailing slash from a profile URL
// and lower-cases the host. The canonical form is the identity basis for
// everything stored about a profile, so two visits to the same page with
// different tracking params or host casing collapse to one record.
func Canonical(urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	parsed.Host = strings.ToLower(parsed.Host)
	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")

	return parsed.String(), nil
}

// ProfileID returns the stable identifier derived from the canonical URL.
func ProfileID(canonicalURL string) string {
	sum := sha256.Sum256([]byte(canonicalURL))
	return hex.EncodeToString(sum[:8])
}

// Slug extracts the public identifier segment from a profile URL, or ""
// when the URL is not a profile page.
func Slug(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	rest := strings.TrimPrefix(parsed.Path, ProfilePathPrefix)
	if rest == parsed.Path {
		return ""
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if decoded, err := url.PathUnescape(rest); err == nil {
		return decoded
	}
	return rest
}

// ResolveURL resolves a possibly-relative href against a base URL.
func ResolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(u).String()
}
