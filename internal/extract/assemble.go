package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/prospect/internal/urlutil"
	"github.com/law-makers/prospect/pkg/models"
)

// Assembler runs every field extractor against a document and composes one
// TargetProfile snapshot. It does not classify; callers pass the result to
// Classify so quality is always derived in one place.
type Assembler struct {
	now func() time.Time
}

// NewAssembler returns an Assembler using the wall clock.
func NewAssembler() *Assembler {
	return &Assembler{now: time.Now}
}

// NewAssemblerWithClock returns an Assembler with an injected clock, for
// deterministic timestamps in tests.
func NewAssemblerWithClock(now func() time.Time) *Assembler {
	return &Assembler{now: now}
}

// Assemble extracts a TargetProfile from doc. Only two conditions abort
// rather than degrade: a page outside the profile family (ErrInvalidPage)
// and an unrecoverable name (MissingFieldError). In the latter case the
// partially assembled profile is returned alongside the error so the caller
// can classify what was recovered.
func (a *Assembler) Assemble(doc *goquery.Document, pageURL string) (*models.TargetProfile, error) {
	if !urlutil.IsProfileURL(pageURL) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPage, pageURL)
	}

	canonical, err := urlutil.Canonical(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPage, pageURL)
	}

	profile := &models.TargetProfile{
		ID:                urlutil.ProfileID(canonical),
		ProfileURL:        canonical,
		Name:              extractName(doc),
		Headline:          extractHeadline(doc),
		About:             extractAbout(doc),
		WorkExperience:    extractExperience(doc),
		Education:         extractEducation(doc),
		Skills:            extractSkills(doc),
		RecentPosts:       extractPosts(doc),
		MutualConnections: extractMutualConnections(doc),
		ExtractedAt:       a.now().UTC(),
	}

	profile.CurrentJobTitle, profile.CurrentCompany = splitHeadline(profile.Headline)

	// The headline convention is unreliable; the newest experience entry is
	// authoritative when the headline didn't yield a position.
	if len(profile.WorkExperience) > 0 {
		top := profile.WorkExperience[0]
		if profile.CurrentJobTitle == "" {
			profile.CurrentJobTitle = top.Title
		}
		if profile.CurrentCompany == "" {
			profile.CurrentCompany = top.Company
		}
	}

	// Last resort for top-card fields: the page's inline bootstrap state.
	if profile.Name == "" || profile.CurrentCompany == "" {
		state := extractScriptState(doc)
		if profile.Name == "" {
			profile.Name = state.Name
		}
		if profile.Headline == "" {
			profile.Headline = state.Headline
		}
		if profile.CurrentCompany == "" {
			profile.CurrentCompany = state.Company
		}
		if profile.CurrentJobTitle == "" && profile.Headline != "" {
			title, company := splitHeadline(profile.Headline)
			profile.CurrentJobTitle = title
			if profile.CurrentCompany == "" {
				profile.CurrentCompany = company
			}
		}
	}

	profile.RawProfileText = flatten(profile)

	if profile.Name == "" {
		log.Debug().Str("url", canonical).Msg("Mandatory name field absent after all fallbacks")
		return profile, &MissingFieldError{Field: models.FieldName}
	}

	return profile, nil
}

// flatten produces the prompt-ready text block: present sections with
// labeled headers, absent sections omitted entirely.
func flatten(p *models.TargetProfile) string {
	var b strings.Builder

	writeLine := func(label, value string) {
		if value != "" {
			b.WriteString(label)
			b.WriteString(": ")
			b.WriteString(value)
			b.WriteString("\n")
		}
	}

	writeLine("Name", p.Name)
	writeLine("Headline", p.Headline)
	switch {
	case p.CurrentJobTitle != "" && p.CurrentCompany != "":
		writeLine("Current Position", p.CurrentJobTitle+" at "+p.CurrentCompany)
	case p.CurrentJobTitle != "":
		writeLine("Current Position", p.CurrentJobTitle)
	case p.CurrentCompany != "":
		writeLine("Current Company", p.CurrentCompany)
	}

	if p.About != "" {
		b.WriteString("About:\n")
		b.WriteString(p.About)
		b.WriteString("\n")
	}

	if len(p.WorkExperience) > 0 {
		b.WriteString("Experience:\n")
		for _, exp := range p.WorkExperience {
			b.WriteString("- ")
			b.WriteString(exp.Title)
			if exp.Company != "" {
				b.WriteString(" at ")
				b.WriteString(exp.Company)
			}
			if exp.Duration != "" {
				b.WriteString(" (")
				b.WriteString(exp.Duration)
				b.WriteString(")")
			}
			b.WriteString("\n")
		}
	}

	if len(p.Education) > 0 {
		b.WriteString("Education:\n")
		for _, edu := range p.Education {
			b.WriteString("- ")
			b.WriteString(edu.School)
			if edu.Degree != "" {
				b.WriteString(", ")
				b.WriteString(edu.Degree)
			}
			if edu.Years != "" {
				b.WriteString(" (")
				b.WriteString(edu.Years)
				b.WriteString(")")
			}
			b.WriteString("\n")
		}
	}

	if len(p.Skills) > 0 {
		writeLine("Skills", strings.Join(p.Skills, ", "))
	}

	if len(p.RecentPosts) > 0 {
		b.WriteString("Recent Activity:\n")
		for _, post := range p.RecentPosts {
			b.WriteString("- ")
			b.WriteString(post.Text)
			b.WriteString("\n")
		}
	}

	if p.MutualConnections > 0 {
		writeLine("Mutual Connections", fmt.Sprintf("%d", p.MutualConnections))
	}

	return strings.TrimRight(b.String(), "\n")
}
