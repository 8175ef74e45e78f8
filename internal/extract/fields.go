package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/prospect/internal/dom"
	"github.com/law-makers/prospect/internal/textutil"
	"github.com/law-makers/prospect/pkg/models"
)

// Field extractors. Each one composes the selector resolver with its own
// cleanup and returns a zero value when nothing is found; absence is input to
// the classifier, not an error.

func extractName(doc *goquery.Document) string {
	sel := dom.Resolve(doc.Selection, namePatterns)
	if sel == nil {
		return ""
	}
	return textutil.Clean(sel.Text())
}

func extractHeadline(doc *goquery.Document) string {
	sel := dom.Resolve(doc.Selection, headlinePatterns)
	if sel == nil {
		return ""
	}
	return textutil.Clean(sel.Text())
}

// splitHeadline parses the conventional "Title at Company" headline form.
// Headlines that don't follow the convention yield the whole text as the
// title and an empty company; the experience section may still fill it in.
func splitHeadline(headline string) (title, company string) {
	if headline == "" {
		return "", ""
	}
	// Last " at " wins: titles like "Head of Sales at Scale at Initech" are
	// rare but the company is always the final segment.
	idx := strings.LastIndex(headline, " at ")
	if idx < 0 {
		return headline, ""
	}
	title = strings.TrimSpace(headline[:idx])
	company = strings.TrimSpace(headline[idx+len(" at "):])
	// A decorated company segment like "Initech | We're hiring!" keeps only
	// the part before the decoration.
	if i := strings.IndexAny(company, "|·"); i >= 0 {
		company = strings.TrimSpace(company[:i])
	}
	return title, company
}

func extractAbout(doc *goquery.Document) string {
	sel := dom.Resolve(doc.Selection, aboutPatterns)
	if sel == nil {
		return ""
	}
	// Rich-text sections flatten to markdown so formatting survives into the
	// prompt text. Fall back to plain text when the fragment won't convert.
	if fragment, err := sel.Html(); err == nil && fragment != "" {
		if md, err := textutil.HTMLToMarkdown(fragment); err == nil && md != "" {
			return textutil.StripChrome(md)
		}
	}
	return textutil.Clean(sel.Text())
}

func extractExperience(doc *goquery.Document) []models.WorkExperience {
	section := dom.Resolve(doc.Selection, experienceSectionPatterns)
	if section == nil {
		return nil
	}

	items := dom.ResolveAll(section, experienceItemPatterns)
	if items == nil {
		return nil
	}

	var out []models.WorkExperience
	seen := make(map[string]bool)
	items.Each(func(_ int, item *goquery.Selection) {
		exp := models.WorkExperience{
			Title:    resolveText(item, experienceTitlePatterns),
			Company:  resolveText(item, experienceCompanyPatterns),
			Duration: resolveText(item, experienceDurationPatterns),
		}
		if exp.Title == "" && exp.Company == "" {
			return
		}
		key := exp.Title + "\x00" + exp.Company
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, exp)
	})

	log.Debug().Int("positions", len(out)).Msg("Experience section extracted")
	return out
}

func extractEducation(doc *goquery.Document) []models.Education {
	section := dom.Resolve(doc.Selection, educationSectionPatterns)
	if section == nil {
		return nil
	}

	items := dom.ResolveAll(section, educationItemPatterns)
	if items == nil {
		return nil
	}

	var out []models.Education
	seen := make(map[string]bool)
	items.Each(func(_ int, item *goquery.Selection) {
		edu := models.Education{
			School: resolveText(item, educationSchoolPatterns),
			Degree: resolveText(item, educationDegreePatterns),
			Years:  resolveText(item, educationYearsPatterns),
		}
		if edu.School == "" {
			return
		}
		key := edu.School + "\x00" + edu.Degree
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, edu)
	})

	return out
}

func extractSkills(doc *goquery.Document) []string {
	items := dom.ResolveAll(doc.Selection, skillPatterns)
	if items == nil {
		return nil
	}

	var skills []string
	items.Each(func(_ int, item *goquery.Selection) {
		if s := textutil.Clean(item.Text()); s != "" {
			skills = append(skills, s)
		}
	})

	return textutil.Dedupe(skills, models.MaxSkills)
}

func extractPosts(doc *goquery.Document) []models.Post {
	items := dom.ResolveAll(doc.Selection, postPatterns)
	if items == nil {
		return nil
	}

	var posts []models.Post
	seen := make(map[string]bool)
	items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		text := textutil.Clean(item.Text())
		if text == "" || seen[text] {
			return true
		}
		seen[text] = true
		posts = append(posts, models.Post{
			Text: textutil.Truncate(text, models.MaxPostLength),
		})
		return len(posts) < models.MaxRecentPosts
	})

	return posts
}

func extractMutualConnections(doc *goquery.Document) int {
	sel := dom.Resolve(doc.Selection, mutualConnectionPatterns)
	if sel == nil {
		return 0
	}
	return textutil.LeadingInt(sel.Text())
}

// resolveText resolves a pattern chain inside an item scope and cleans the
// first match's text.
func resolveText(scope *goquery.Selection, patterns []string) string {
	sel := dom.Resolve(scope, patterns)
	if sel == nil {
		return ""
	}
	return textutil.Clean(sel.First().Text())
}
