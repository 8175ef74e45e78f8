package urlutil

import "testing"

func TestCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips query",
			in:   "https://www.example-network.com/in/jane-doe?utm_source=share",
			want: "https://www.example-network.com/in/jane-doe",
		},
		{
			name: "strips fragment",
			in:   "https://www.example-network.com/in/jane-doe#about",
			want: "https://www.example-network.com/in/jane-doe",
		},
		{
			name: "strips trailing slash",
			in:   "https://www.example-network.com/in/jane-doe/",
			want: "https://www.example-network.com/in/jane-doe",
		},
		{
			name: "all at once",
			in:   "https://www.example-network.com/in/jane-doe/?trk=feed#recent",
			want: "https://www.example-network.com/in/jane-doe",
		},
		{
			name: "lower-cases host",
			in:   "https://WWW.Example-Network.com/in/jane-doe",
			want: "https://www.example-network.com/in/jane-doe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonical(tt.in)
			if err != nil {
				t.Fatalf("Canonical(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Canonical(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestProfileID_Stable(t *testing.T) {
	a := ProfileID("https://www.example-network.com/in/jane-doe")
	b := ProfileID("https://www.example-network.com/in/jane-doe")
	if a != b {
		t.Errorf("ProfileID not stable: %q vs %q", a, b)
	}
	if a == ProfileID("https://www.example-network.com/in/john-doe") {
		t.Error("distinct URLs produced the same ProfileID")
	}

	upper, err := Canonical("https://WWW.example-network.com/in/jane-doe")
	if err != nil {
		t.Fatalf("Canonical error: %v", err)
	}
	if ProfileID(upper) != a {
		t.Error("host casing changed the ProfileID")
	}
}

func TestIsProfileURL(t *testing.T) {
	if !IsProfileURL("https://www.example-network.com/in/jane-doe") {
		t.Error("expected profile URL to be recognized")
	}
	if IsProfileURL("https://www.example-network.com/feed/") {
		t.Error("feed page should not be a profile URL")
	}
	if IsProfileURL("https://www.example-network.com/in/") {
		t.Error("bare /in/ path should not be a profile URL")
	}
}

func TestSlug(t *testing.T) {
	if got := Slug("https://www.example-network.com/in/jane-doe/"); got != "jane-doe" {
		t.Errorf("Slug = %q, want %q", got, "jane-doe")
	}
	if got := Slug("https://www.example-network.com/feed/"); got != "" {
		t.Errorf("Slug on non-profile URL = %q, want empty", got)
	}
}
