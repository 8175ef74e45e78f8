// internal/page/fixture.go
package page

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FixtureSource serves pre-captured HTML instead of a live page. It backs
// offline extraction (saved pages handed to the CLI) and tests. Multiple
// snapshots may be given; each Nudge advances to the next one, mimicking a
// page that reveals more content after scrolling.
type FixtureSource struct {
	url       string
	snapshots []string
	index     int
	nudges    int
}

// NewFixtureSource builds a source over one or more HTML snapshots.
func NewFixtureSource(pageURL string, snapshots ...string) *FixtureSource {
	return &FixtureSource{url: pageURL, snapshots: snapshots}
}

// FixtureFromFile loads a single saved page from disk.
func FixtureFromFile(pageURL, path string) (*FixtureSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	return NewFixtureSource(pageURL, string(data)), nil
}

// Document parses the current snapshot.
func (f *FixtureSource) Document(ctx context.Context) (*goquery.Document, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if len(f.snapshots) == 0 {
		return nil, "", fmt.Errorf("fixture source has no snapshots")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(f.snapshots[f.index]))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse fixture HTML: %w", err)
	}
	return doc, f.url, nil
}

// Nudge advances to the next snapshot when one exists.
func (f *FixtureSource) Nudge(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.nudges++
	if f.index < len(f.snapshots)-1 {
		f.index++
	}
	return nil
}

// Nudges reports how many times the source was nudged.
func (f *FixtureSource) Nudges() int {
	return f.nudges
}
