// Package dom implements priority-fallback selector resolution against a
// goquery document.
//
// The target page family is versioned and its markup changes without notice,
// so every logical field carries an ordered list of candidate CSS patterns
// spanning known historical layouts. Resolution tries patterns strictly in
// order; the first one that both compiles and matches wins. A pattern that
// fails to compile is recorded and skipped, never surfaced as an error.
package dom

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/rs/zerolog/log"
)

// OutcomeKind classifies what happened when a single pattern was tried.
type OutcomeKind int

const (
	// Matched means the pattern compiled and matched at least one node.
	Matched OutcomeKind = iota
	// PatternInvalid means the pattern failed to compile as a CSS selector.
	PatternInvalid
	// NoMatch means the pattern compiled but matched nothing in scope.
	NoMatch
)

func (k OutcomeKind) String() string {
	switch k {
	case Matched:
		return "matched"
	case PatternInvalid:
		return "pattern_invalid"
	default:
		return "no_match"
	}
}

// Attempt records the outcome of one pattern in a fallback chain. Traces are
// only consumed by tests and debug logging; the public resolution result
// collapses to a selection or nil.
type Attempt struct {
	Pattern string
	Kind    OutcomeKind
	Err     error
}

// Resolve tries patterns in order against scope and returns the first node
// that any of them matches, or nil when the whole chain misses.
func Resolve(scope *goquery.Selection, patterns []string) *goquery.Selection {
	sel, _ := ResolveTrace(scope, patterns)
	return sel
}

// ResolveAll is like Resolve but returns every node matched by the winning
// pattern, for list-valued fields.
func ResolveAll(scope *goquery.Selection, patterns []string) *goquery.Selection {
	sel, _ := resolve(scope, patterns, false)
	return sel
}

// ResolveTrace resolves and additionally reports the per-pattern outcomes
// leading up to the result, so callers can assert why a chain succeeded or
// failed.
func ResolveTrace(scope *goquery.Selection, patterns []string) (*goquery.Selection, []Attempt) {
	sel, trace := resolve(scope, patterns, true)
	if sel != nil {
		sel = sel.First()
	}
	return sel, trace
}

func resolve(scope *goquery.Selection, patterns []string, traced bool) (*goquery.Selection, []Attempt) {
	var trace []Attempt
	if scope == nil {
		return nil, trace
	}

	for _, pattern := range patterns {
		matcher, err := cascadia.Compile(pattern)
		if err != nil {
			log.Debug().Str("pattern", pattern).Err(err).Msg("Skipping malformed selector pattern")
			if traced {
				trace = append(trace, Attempt{Pattern: pattern, Kind: PatternInvalid, Err: err})
			}
			continue
		}

		found := scope.FindMatcher(matcher)
		if found.Length() == 0 {
			if traced {
				trace = append(trace, Attempt{Pattern: pattern, Kind: NoMatch})
			}
			continue
		}

		if traced {
			trace = append(trace, Attempt{Pattern: pattern, Kind: Matched})
		}
		return found, trace
	}

	return nil, trace
}
