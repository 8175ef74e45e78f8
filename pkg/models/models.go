// Package models defines the shared data structures passed between the
// extraction engine, the storage layer, and the RPC boundary.
package models

import "time"

// Quality is the tri-state confidence label attached to an extracted profile.
type Quality string

const (
	QualityComplete Quality = "complete"
	QualityPartial  Quality = "partial"
	QualityMinimal  Quality = "minimal"
)

// Valid reports whether q is one of the three known quality tiers.
func (q Quality) Valid() bool {
	switch q {
	case QualityComplete, QualityPartial, QualityMinimal:
		return true
	}
	return false
}

// Field names reported in TargetProfile.MissingFields. The classifier appends
// them in this order; consumers rely on the ordering being stable.
const (
	FieldName        = "name"
	FieldURL         = "url"
	FieldJobTitle    = "jobTitle"
	FieldCompany     = "company"
	FieldExperience  = "experience"
	FieldEducation   = "education"
	FieldRecentPosts = "recentPosts"
)

// Caps applied by the field extractors before a profile is assembled.
const (
	MaxSkills      = 20
	MaxRecentPosts = 5
	MaxPostLength  = 500
)

// WorkExperience is a single position parsed from the experience section.
type WorkExperience struct {
	Title    string `json:"title"`
	Company  string `json:"company,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// Education is a single entry parsed from the education section.
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
	Years  string `json:"years,omitempty"`
}

// Post is one recent activity item, truncated to MaxPostLength runes.
type Post struct {
	Text     string `json:"text"`
	PostedAt string `json:"posted_at,omitempty"`
}

// TargetProfile is one page's extracted snapshot. Quality and MissingFields
// are derived by the classifier and must never be set directly; the assembler
// produces them zeroed and Classify fills them in.
type TargetProfile struct {
	ID                string           `json:"id"`
	ProfileURL        string           `json:"profile_url"`
	Name              string           `json:"name"`
	Headline          string           `json:"headline,omitempty"`
	CurrentJobTitle   string           `json:"current_job_title,omitempty"`
	CurrentCompany    string           `json:"current_company,omitempty"`
	About             string           `json:"about,omitempty"`
	WorkExperience    []WorkExperience `json:"work_experience,omitempty"`
	Education         []Education      `json:"education,omitempty"`
	Skills            []string         `json:"skills,omitempty"`
	RecentPosts       []Post           `json:"recent_posts,omitempty"`
	MutualConnections int              `json:"mutual_connections"`
	RawProfileText    string           `json:"raw_profile_text,omitempty"`
	ExtractedAt       time.Time        `json:"extracted_at"`
	Quality           Quality          `json:"extraction_quality"`
	MissingFields     []string         `json:"missing_fields,omitempty"`
}

// ProfileAnalysis is a downstream AI-analysis artifact. Its content is opaque
// to this layer; identity is (profile, user) so writes overwrite.
type ProfileAnalysis struct {
	ProfileID string    `json:"profile_id"`
	UserID    string    `json:"user_id"`
	Summary   string    `json:"summary,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageDraft is a generated outreach message awaiting user review.
type MessageDraft struct {
	ProfileID string    `json:"profile_id"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	Tone      string    `json:"tone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OutreachEntry records one sent message for history purposes.
type OutreachEntry struct {
	ProfileID   string    `json:"profile_id"`
	ProfileName string    `json:"profile_name,omitempty"`
	Message     string    `json:"message"`
	SentAt      time.Time `json:"sent_at"`
}

// PlanTier identifies the account's billing tier; it only influences the
// outreach-history retention period at write time.
type PlanTier string

const (
	TierFree PlanTier = "free"
	TierPaid PlanTier = "paid"
)

// Subscription is the caller-supplied subscription record consulted when an
// outreach entry is written.
type Subscription struct {
	UserID    string    `json:"user_id"`
	Tier      PlanTier  `json:"tier"`
	RenewedAt time.Time `json:"renewed_at,omitempty"`
}

// UserProfile is the extension user's own profile, a singleton per user.
type UserProfile struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name,omitempty"`
	Headline string `json:"headline,omitempty"`
	Company  string `json:"company,omitempty"`
	Goals    string `json:"goals,omitempty"`
}

// Settings holds per-user extraction and messaging preferences.
type Settings struct {
	UserID          string `json:"user_id"`
	DefaultTone     string `json:"default_tone,omitempty"`
	MaxAttempts     int    `json:"max_attempts,omitempty"`
	IndicatorBadge  bool   `json:"indicator_badge,omitempty"`
	PreferredLocale string `json:"preferred_locale,omitempty"`
}
