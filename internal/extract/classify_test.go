package extract

import (
	"testing"

	"github.com/law-makers/prospect/pkg/models"
)

func fullProfile() *models.TargetProfile {
	return &models.TargetProfile{
		ID:              "abc123",
		ProfileURL:      "https://www.example-network.com/in/jane-doe",
		Name:            "Jane Doe",
		CurrentJobTitle: "Staff Engineer",
		CurrentCompany:  "Initech",
		WorkExperience:  []models.WorkExperience{{Title: "Staff Engineer", Company: "Initech"}},
		Education:       []models.Education{{School: "State University"}},
		RecentPosts:     []models.Post{{Text: "Shipped a thing"}},
	}
}

func TestClassify_Complete(t *testing.T) {
	p := fullProfile()
	Classify(p)

	if p.Quality != models.QualityComplete {
		t.Errorf("Quality = %q, want complete", p.Quality)
	}
	if len(p.MissingFields) != 0 {
		t.Errorf("MissingFields = %v, want empty", p.MissingFields)
	}
}

func TestClassify_MinimalWhenPositionMissing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.TargetProfile)
	}{
		{"no job title", func(p *models.TargetProfile) { p.CurrentJobTitle = "" }},
		{"no company", func(p *models.TargetProfile) { p.CurrentCompany = "" }},
		{"neither, everything else missing too", func(p *models.TargetProfile) {
			p.CurrentJobTitle = ""
			p.CurrentCompany = ""
			p.WorkExperience = nil
			p.Education = nil
			p.RecentPosts = nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fullProfile()
			tt.mutate(p)
			Classify(p)
			if p.Quality != models.QualityMinimal {
				t.Errorf("Quality = %q, want minimal", p.Quality)
			}
			if len(p.MissingFields) == 0 {
				t.Error("MissingFields should not be empty")
			}
		})
	}
}

func TestClassify_PartialWhenStructuralMissing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.TargetProfile)
		want   []string
	}{
		{"no experience", func(p *models.TargetProfile) { p.WorkExperience = nil }, []string{models.FieldExperience}},
		{"no education", func(p *models.TargetProfile) { p.Education = nil }, []string{models.FieldEducation}},
		{"no posts", func(p *models.TargetProfile) { p.RecentPosts = nil }, []string{models.FieldRecentPosts}},
		{"all structural gone", func(p *models.TargetProfile) {
			p.WorkExperience = nil
			p.Education = nil
			p.RecentPosts = nil
		}, []string{models.FieldExperience, models.FieldEducation, models.FieldRecentPosts}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fullProfile()
			tt.mutate(p)
			Classify(p)
			if p.Quality != models.QualityPartial {
				t.Errorf("Quality = %q, want partial", p.Quality)
			}
			if len(p.MissingFields) != len(tt.want) {
				t.Fatalf("MissingFields = %v, want %v", p.MissingFields, tt.want)
			}
			for i := range tt.want {
				if p.MissingFields[i] != tt.want[i] {
					t.Errorf("MissingFields[%d] = %q, want %q", i, p.MissingFields[i], tt.want[i])
				}
			}
		})
	}
}

func TestClassify_Recompute(t *testing.T) {
	// Quality is derived: re-running after a field change must update it.
	p := fullProfile()
	Classify(p)
	if p.Quality != models.QualityComplete {
		t.Fatalf("setup: Quality = %q, want complete", p.Quality)
	}

	p.CurrentCompany = ""
	Classify(p)
	if p.Quality != models.QualityMinimal {
		t.Errorf("after mutation Quality = %q, want minimal", p.Quality)
	}
}
