// Package textutil provides text cleanup shared by the field extractors:
// whitespace normalization, UI-chrome filtering, deduplication, and
// HTML-to-markdown flattening for rich-text sections.
package textutil

import (
	"strings"
	"unicode"
)

// chromePhrases are button labels and UI affordances the target page renders
// inside content containers. They carry no profile information and are
// stripped wherever they appear as a whole line or trailing fragment.
var chromePhrases = []string{
	"…see more",
	"...see more",
	"see more",
	"show all",
	"show more",
	"show less",
	"follow",
	"connect",
	"message",
	"visit my website",
	"· 3rd",
	"· 2nd",
	"· 1st",
}

// Clean trims s, collapses runs of whitespace (including newlines) into
// single spaces, and strips known chrome phrases from the edges.
func Clean(s string) string {
	return stripEdges(Collapse(s))
}

// StripChrome removes chrome phrases from the edges of every line while
// preserving the line structure, for markdown-flattened sections.
func StripChrome(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		stripped := stripEdges(strings.TrimRight(line, " \t"))
		if stripped == "" && strings.TrimSpace(line) != "" {
			// The line was chrome-only; drop it entirely.
			continue
		}
		out = append(out, stripped)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func stripEdges(s string) string {
	for changed := true; changed; {
		changed = false
		lower := strings.ToLower(s)
		for _, phrase := range chromePhrases {
			if strings.HasSuffix(lower, phrase) {
				s = strings.TrimSpace(s[:len(s)-len(phrase)])
				changed = true
				break
			}
			if strings.HasPrefix(lower, phrase) {
				s = strings.TrimSpace(s[len(phrase):])
				changed = true
				break
			}
		}
	}
	return s
}

// Collapse trims and replaces all whitespace runs with single spaces.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanLines splits multi-line text, cleans each line, and drops empties and
// chrome-only lines, preserving order.
func CleanLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		cleaned := Clean(line)
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// Dedupe removes exact-string duplicates while preserving first-seen order,
// and caps the result at max entries (max <= 0 means no cap).
func Dedupe(items []string, max int) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// Truncate cuts s to at most max runes, appending an ellipsis when trimmed.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}

// LeadingInt parses the leading digit run from decorated text such as
// "12 mutual connections" or "500+ connections". Returns 0 when the text
// does not start with digits after trimming.
func LeadingInt(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	found := false
	for _, r := range s {
		if !unicode.IsDigit(r) {
			break
		}
		found = true
		n = n*10 + int(r-'0')
		if n > 1<<30 {
			break
		}
	}
	if !found {
		return 0
	}
	return n
}
