package textutil

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Jane   Doe \n", "Jane Doe"},
		{"Staff Engineer at Initech …see more", "Staff Engineer at Initech"},
		{"Show all\nOpen source maintainer", "Open source maintainer"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDedupe(t *testing.T) {
	in := []string{"Go", "SQL", "Go", "", "Rust", "SQL", "C"}
	got := Dedupe(in, 3)
	want := []string{"Go", "SQL", "Rust"}
	if len(got) != len(want) {
		t.Fatalf("Dedupe = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Dedupe[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 600)
	got := Truncate(long, 500)
	if n := len([]rune(got)); n > 500 {
		t.Errorf("Truncate length = %d, want <= 500", n)
	}
	if !strings.HasSuffix(got, "…") {
		t.Error("truncated text should end with an ellipsis")
	}
	if Truncate("short", 500) != "short" {
		t.Error("text under the cap should be unchanged")
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12 mutual connections", 12},
		{"500+ connections", 500},
		{" 3 shared groups", 3},
		{"no digits here", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := LeadingInt(tt.in); got != tt.want {
			t.Errorf("LeadingInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHTMLToMarkdown(t *testing.T) {
	in := `<div><p>Building <strong>useful</strong> things.</p><script>evil()</script></div>`
	got, err := HTMLToMarkdown(in)
	if err != nil {
		t.Fatalf("HTMLToMarkdown error: %v", err)
	}
	if !strings.Contains(got, "**useful**") {
		t.Errorf("markdown output missing bold text: %q", got)
	}
	if strings.Contains(got, "evil") {
		t.Errorf("script content leaked into markdown: %q", got)
	}
}
