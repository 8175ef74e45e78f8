package extract

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/law-makers/prospect/pkg/models"
)

const profileURL = "https://www.example-network.com/in/jane-doe?utm_source=share"

const fullFixture = `<!DOCTYPE html>
<html><body>
<h1 class="top-card__name">Jane Doe</h1>
<div class="top-card__headline">Staff Engineer at Initech</div>
<div class="top-card__connections-count">12 mutual connections</div>
<section class="about-section">
  <div class="inline-show-more-text"><p>Building <strong>useful</strong> things. …see more</p></div>
</section>
<section id="experience-section"><ul>
  <li class="experience-item">
    <span class="experience-item__title">Staff Engineer</span>
    <span class="experience-item__subtitle">Initech</span>
    <span class="experience-item__duration">2021 - Present</span>
  </li>
  <li class="experience-item">
    <span class="experience-item__title">Senior Engineer</span>
    <span class="experience-item__subtitle">Initrode</span>
    <span class="experience-item__duration">2017 - 2021</span>
  </li>
  <li class="experience-item">
    <span class="experience-item__title">Staff Engineer</span>
    <span class="experience-item__subtitle">Initech</span>
  </li>
</ul></section>
<section id="education-section"><ul>
  <li class="education__list-item">
    <h3 class="pv-entity__school-name">State University</h3>
    <div class="pv-entity__degree-name"><span class="pv-entity__comma-item">BSc Computer Science</span></div>
    <div class="pv-entity__dates"><span>Dates attended</span><span>2009 - 2013</span></div>
  </li>
</ul></section>
<ul>
  <li><span class="pv-skill-category-entity__name-text">Go</span></li>
  <li><span class="pv-skill-category-entity__name-text">Distributed Systems</span></li>
  <li><span class="pv-skill-category-entity__name-text">Go</span></li>
</ul>
<div class="feed-shared-update-v2"><div class="update-components-text">We just shipped our new ingestion pipeline.</div></div>
<div class="feed-shared-update-v2"><div class="update-components-text">Hiring Go engineers — reach out!</div></div>
</body></html>`

func fixtureDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func fixedClock() func() time.Time {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func TestAssemble_FullFixture(t *testing.T) {
	a := NewAssemblerWithClock(fixedClock())
	doc := fixtureDoc(t, fullFixture)

	p, err := a.Assemble(doc, profileURL)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}

	if p.Name != "Jane Doe" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.ProfileURL != "https://www.example-network.com/in/jane-doe" {
		t.Errorf("ProfileURL not canonicalized: %q", p.ProfileURL)
	}
	if p.ID == "" {
		t.Error("ID should be derived from the canonical URL")
	}
	if p.CurrentJobTitle != "Staff Engineer" || p.CurrentCompany != "Initech" {
		t.Errorf("position = %q at %q", p.CurrentJobTitle, p.CurrentCompany)
	}
	// Duplicate third entry collapses.
	if len(p.WorkExperience) != 2 {
		t.Errorf("WorkExperience = %d entries, want 2", len(p.WorkExperience))
	}
	if len(p.Education) != 1 || p.Education[0].School != "State University" {
		t.Errorf("Education = %+v", p.Education)
	}
	// Skills dedupe by exact match.
	if len(p.Skills) != 2 {
		t.Errorf("Skills = %v, want 2 deduplicated entries", p.Skills)
	}
	if len(p.RecentPosts) != 2 {
		t.Errorf("RecentPosts = %d, want 2", len(p.RecentPosts))
	}
	if p.MutualConnections != 12 {
		t.Errorf("MutualConnections = %d, want 12", p.MutualConnections)
	}
	if !strings.Contains(p.RawProfileText, "Name: Jane Doe") {
		t.Errorf("RawProfileText missing name header:\n%s", p.RawProfileText)
	}
	if !strings.Contains(p.RawProfileText, "Experience:") {
		t.Errorf("RawProfileText missing experience section:\n%s", p.RawProfileText)
	}
	// The about chrome phrase must not survive into the prompt text.
	if strings.Contains(p.RawProfileText, "see more") {
		t.Errorf("chrome phrase leaked into RawProfileText:\n%s", p.RawProfileText)
	}
	// Assembler never classifies.
	if p.Quality != "" || p.MissingFields != nil {
		t.Errorf("assembler must not classify: quality=%q missing=%v", p.Quality, p.MissingFields)
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	a := NewAssemblerWithClock(fixedClock())
	doc := fixtureDoc(t, fullFixture)

	first, err := a.Assemble(doc, profileURL)
	if err != nil {
		t.Fatalf("first Assemble: %v", err)
	}
	second, err := a.Assemble(doc, profileURL)
	if err != nil {
		t.Fatalf("second Assemble: %v", err)
	}

	if diff := cmp.Diff(first, second, cmpopts.IgnoreFields(models.TargetProfile{}, "ExtractedAt")); diff != "" {
		t.Errorf("repeated assembly differs (-first +second):\n%s", diff)
	}
}

func TestAssemble_WrongPageFamily(t *testing.T) {
	a := NewAssembler()
	doc := fixtureDoc(t, fullFixture)

	_, err := a.Assemble(doc, "https://www.example-network.com/feed/")
	if !errors.Is(err, ErrInvalidPage) {
		t.Errorf("err = %v, want ErrInvalidPage", err)
	}
}

func TestAssemble_MissingName(t *testing.T) {
	a := NewAssembler()
	doc := fixtureDoc(t, `<html><body><div class="top-card__headline">Engineer at Initech</div></body></html>`)

	p, err := a.Assemble(doc, profileURL)

	var mfe *MissingFieldError
	if !errors.As(err, &mfe) {
		t.Fatalf("err = %v, want MissingFieldError", err)
	}
	if mfe.Field != models.FieldName {
		t.Errorf("missing field = %q, want name", mfe.Field)
	}
	if p == nil {
		t.Fatal("partial profile should be returned alongside the error")
	}
	if p.CurrentCompany != "Initech" {
		t.Errorf("partial profile lost recovered fields: %+v", p)
	}
}

func TestAssemble_ScriptStateFallback(t *testing.T) {
	a := NewAssembler()
	doc := fixtureDoc(t, `<html><body>
<script>window.__PROFILE_STATE__ = {profile: {firstName: "Jane", lastName: "Doe", headline: "Staff Engineer at Initech", companyName: "Initech"}};</script>
</body></html>`)

	p, err := a.Assemble(doc, profileURL)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if p.Name != "Jane Doe" {
		t.Errorf("Name from script state = %q, want Jane Doe", p.Name)
	}
	if p.CurrentCompany != "Initech" {
		t.Errorf("Company from script state = %q, want Initech", p.CurrentCompany)
	}
}

func TestSplitHeadline(t *testing.T) {
	tests := []struct {
		in          string
		wantTitle   string
		wantCompany string
	}{
		{"Staff Engineer at Initech", "Staff Engineer", "Initech"},
		{"Head of Sales at Scale at Initech", "Head of Sales at Scale", "Initech"},
		{"Dreamer. Builder.", "Dreamer. Builder.", ""},
		{"CTO at Initech | We're hiring!", "CTO", "Initech"},
		{"", "", ""},
	}
	for _, tt := range tests {
		title, company := splitHeadline(tt.in)
		if title != tt.wantTitle || company != tt.wantCompany {
			t.Errorf("splitHeadline(%q) = (%q, %q), want (%q, %q)",
				tt.in, title, company, tt.wantTitle, tt.wantCompany)
		}
	}
}
