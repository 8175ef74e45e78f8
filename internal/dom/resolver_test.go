package dom

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing fixture HTML: %v", err)
	}
	return doc
}

func TestResolve_FallbackOrder(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<h1 class="top-card__name">Jane Doe</h1>
		<div class="pv-text-details__left-panel"><h1>Wrong One</h1></div>
	</body></html>`)

	// First pattern wins even when later patterns also match.
	sel := Resolve(doc.Selection, []string{
		"h1.top-card__name",
		".pv-text-details__left-panel h1",
	})
	if sel == nil {
		t.Fatal("Resolve returned nil, want a match")
	}
	if got := strings.TrimSpace(sel.Text()); got != "Jane Doe" {
		t.Errorf("resolved text = %q, want %q", got, "Jane Doe")
	}
}

func TestResolveTrace_InvalidThenMissThenHit(t *testing.T) {
	doc := mustDoc(t, `<html><body><span class="headline">Staff Engineer at Initech</span></body></html>`)

	sel, trace := ResolveTrace(doc.Selection, []string{
		"div[[broken", // invalid syntax
		".does-not-exist",
		"span.headline",
	})

	if sel == nil {
		t.Fatal("expected the third pattern to match")
	}
	if len(trace) != 3 {
		t.Fatalf("trace length = %d, want 3", len(trace))
	}
	if trace[0].Kind != PatternInvalid {
		t.Errorf("trace[0].Kind = %v, want PatternInvalid", trace[0].Kind)
	}
	if trace[0].Err == nil {
		t.Error("invalid pattern should carry a compile error")
	}
	if trace[1].Kind != NoMatch {
		t.Errorf("trace[1].Kind = %v, want NoMatch", trace[1].Kind)
	}
	if trace[2].Kind != Matched {
		t.Errorf("trace[2].Kind = %v, want Matched", trace[2].Kind)
	}
}

func TestResolve_AllMiss(t *testing.T) {
	doc := mustDoc(t, `<html><body><p>nothing here</p></body></html>`)

	sel := Resolve(doc.Selection, []string{".a", ".b", "section#x"})
	if sel != nil {
		t.Errorf("Resolve = %v, want nil when no pattern matches", sel)
	}
}

func TestResolveAll_ReturnsEveryNode(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<ul><li class="skill">Go</li><li class="skill">SQL</li><li class="skill">Kubernetes</li></ul>
	</body></html>`)

	sel := ResolveAll(doc.Selection, []string{".missing", "li.skill"})
	if sel == nil {
		t.Fatal("ResolveAll returned nil")
	}
	if sel.Length() != 3 {
		t.Errorf("matched %d nodes, want 3", sel.Length())
	}
}

func TestResolve_NilScope(t *testing.T) {
	if sel := Resolve(nil, []string{"div"}); sel != nil {
		t.Error("Resolve with nil scope should return nil")
	}
}
