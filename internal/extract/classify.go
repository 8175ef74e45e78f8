package extract

import "github.com/law-makers/prospect/pkg/models"

// Classify derives the quality tier and missing-field report for an
// assembled profile, overwriting whatever was there before. The rule order
// is fixed; downstream consumers depend on these exact semantics:
//
//  1. every absent critical or structural field is appended to MissingFields
//  2. nothing missing            -> complete
//  3. jobTitle or company absent -> minimal
//  4. anything else missing      -> partial
//
// A missing current position caps quality at minimal regardless of what
// else was recovered.
func Classify(p *models.TargetProfile) {
	missing := make([]string, 0, 7)

	if p.Name == "" {
		missing = append(missing, models.FieldName)
	}
	if p.ProfileURL == "" {
		missing = append(missing, models.FieldURL)
	}
	if p.CurrentJobTitle == "" {
		missing = append(missing, models.FieldJobTitle)
	}
	if p.CurrentCompany == "" {
		missing = append(missing, models.FieldCompany)
	}
	if len(p.WorkExperience) == 0 {
		missing = append(missing, models.FieldExperience)
	}
	if len(p.Education) == 0 {
		missing = append(missing, models.FieldEducation)
	}
	if len(p.RecentPosts) == 0 {
		missing = append(missing, models.FieldRecentPosts)
	}

	switch {
	case len(missing) == 0:
		p.Quality = models.QualityComplete
		p.MissingFields = nil
		return
	case p.CurrentJobTitle == "" || p.CurrentCompany == "":
		p.Quality = models.QualityMinimal
	default:
		p.Quality = models.QualityPartial
	}
	p.MissingFields = missing
}
