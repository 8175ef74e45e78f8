// Package store implements the namespaced, TTL-aware key-value layer that
// holds extracted profiles and their downstream artifacts.
//
// Namespaces map onto two physical quota domains: a small "sync" domain for
// singleton-per-user records and a larger "local" domain for collections.
// Expiry is lazy (checked on read, expired records deleted as a side effect)
// plus a periodic sweep; quota overflow fails the write instead of evicting
// anything, because user data must never be dropped silently to make room.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/prospect/pkg/models"
)

// Domain identifies a physical quota bucket.
type Domain string

const (
	// DomainSync holds low-cardinality singleton-per-user records.
	DomainSync Domain = "sync"
	// DomainLocal holds all collections: caches, drafts, history.
	DomainLocal Domain = "local"
)

// Capacity in bytes per domain, modeled on browser extension storage limits.
const (
	SyncCapacity  = 100 * 1024
	LocalCapacity = 10 * 1024 * 1024
)

// Capacity returns the domain's byte capacity.
func (d Domain) Capacity() int64 {
	if d == DomainSync {
		return SyncCapacity
	}
	return LocalCapacity
}

// Namespace is a logical partition holding one record kind.
type Namespace string

const (
	NSTargetProfiles  Namespace = "targetProfiles"
	NSProfileAnalyses Namespace = "profileAnalyses"
	NSMessageDrafts   Namespace = "messageDrafts"
	NSOutreachHistory Namespace = "outreachHistory"
	NSUserProfile     Namespace = "userProfile"
	NSSettings        Namespace = "settings"
	NSSubscription    Namespace = "subscriptionPlan"
)

// AllNamespaces lists every namespace, in sweep order.
var AllNamespaces = []Namespace{
	NSTargetProfiles,
	NSProfileAnalyses,
	NSMessageDrafts,
	NSOutreachHistory,
	NSUserProfile,
	NSSettings,
	NSSubscription,
}

// Domain maps a namespace onto its quota domain.
func (n Namespace) Domain() Domain {
	switch n {
	case NSUserProfile, NSSettings, NSSubscription:
		return DomainSync
	default:
		return DomainLocal
	}
}

// Fixed retention periods. Zero means indefinite. Outreach history is the
// only tier-dependent namespace; see outreachTTL.
const (
	ProfileTTL      = 24 * time.Hour
	AnalysisTTL     = 24 * time.Hour
	DraftTTL        = 7 * 24 * time.Hour
	FreeOutreachTTL = 5 * 24 * time.Hour
)

// TTL returns the namespace's fixed retention period, zero for indefinite.
func (n Namespace) TTL() time.Duration {
	switch n {
	case NSTargetProfiles:
		return ProfileTTL
	case NSProfileAnalyses:
		return AnalysisTTL
	case NSMessageDrafts:
		return DraftTTL
	case NSOutreachHistory:
		return FreeOutreachTTL
	default:
		return 0
	}
}

// schemaVersion is the serialization contract version per envelope. Records
// persisted under an older version are treated as expired on read; every
// record kind except outreach history is a cache or re-derivable artifact,
// and the outreach schema only changes additively.
const schemaVersion = 1

// envelope is the single serialization contract for all namespaces.
type envelope struct {
	Schema    int             `json:"schema"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at,omitzero"`
	Payload   json.RawMessage `json:"payload"`
}

func (e *envelope) expired(now time.Time) bool {
	if e.Schema != schemaVersion {
		return true
	}
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Sentinel errors.
var (
	// ErrNotFound is returned by backends for absent keys.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable wraps backing-store failures; retryable at the
	// caller's discretion.
	ErrUnavailable = errors.New("backing store unavailable")
)

// QuotaError reports a write that would exceed its domain's capacity.
// No partial write occurs and nothing is evicted; the caller must clear
// data explicitly to make room.
type QuotaError struct {
	Domain   Domain
	Used     int64
	Needed   int64
	Capacity int64
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("storage quota exceeded in %s domain: %d used + %d needed > %d capacity",
		e.Domain, e.Used, e.Needed, e.Capacity)
}

// Usage describes a domain's current occupancy.
type Usage struct {
	Domain   Domain `json:"domain"`
	Used     int64  `json:"used"`
	Capacity int64  `json:"capacity"`
}

// Backend is the raw domain-scoped byte store underneath the Store. Concrete
// backings are an in-memory map and SQLite; the contract assumes neither.
type Backend interface {
	Get(ctx context.Context, d Domain, ns Namespace, key string) ([]byte, error)
	Put(ctx context.Context, d Domain, ns Namespace, key string, value []byte) error
	Delete(ctx context.Context, d Domain, ns Namespace, key string) error
	// List returns every record in a namespace, keyed.
	List(ctx context.Context, d Domain, ns Namespace) (map[string][]byte, error)
	// Usage returns the domain's occupied bytes.
	Usage(ctx context.Context, d Domain) (int64, error)
	// Clear removes every record in every namespace of the domain.
	Clear(ctx context.Context, d Domain) error
	Close() error
}

// Store is the typed, TTL-aware facade over a Backend.
type Store struct {
	backend Backend
	now     func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock injects a clock, for expiry tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// New builds a Store over the given backend.
func New(backend Backend, opts ...StoreOption) *Store {
	s := &Store{backend: backend, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// analysisKey derives the identity key for a (profile, user) analysis pair.
func analysisKey(profileID, userID string) string {
	return profileID + ":" + userID
}

// --- Target profiles ---

// PutProfile stores an extracted profile under its derived ID with the
// 24-hour profile TTL.
func (s *Store) PutProfile(ctx context.Context, p *models.TargetProfile) error {
	if p.ID == "" {
		return fmt.Errorf("profile has no ID")
	}
	return s.put(ctx, NSTargetProfiles, p.ID, p, NSTargetProfiles.TTL())
}

// GetProfile returns the cached profile or nil when absent or expired.
func (s *Store) GetProfile(ctx context.Context, id string) (*models.TargetProfile, error) {
	var p models.TargetProfile
	ok, err := s.get(ctx, NSTargetProfiles, id, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// DeleteProfile removes a cached profile.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	return s.delete(ctx, NSTargetProfiles, id)
}

// --- Analyses ---

// PutAnalysis stores an analysis under its (profile, user) identity,
// overwriting any previous one.
func (s *Store) PutAnalysis(ctx context.Context, a *models.ProfileAnalysis) error {
	if a.ProfileID == "" || a.UserID == "" {
		return fmt.Errorf("analysis requires profile and user IDs")
	}
	return s.put(ctx, NSProfileAnalyses, analysisKey(a.ProfileID, a.UserID), a, NSProfileAnalyses.TTL())
}

// GetAnalysis returns the live analysis for a (profile, user) pair, or nil.
func (s *Store) GetAnalysis(ctx context.Context, profileID, userID string) (*models.ProfileAnalysis, error) {
	var a models.ProfileAnalysis
	ok, err := s.get(ctx, NSProfileAnalyses, analysisKey(profileID, userID), &a)
	if err != nil || !ok {
		return nil, err
	}
	return &a, nil
}

// --- Message drafts ---

// PutDraft stores a draft under its owning profile, overwriting any
// previous one.
func (s *Store) PutDraft(ctx context.Context, d *models.MessageDraft) error {
	if d.ProfileID == "" {
		return fmt.Errorf("draft requires a profile ID")
	}
	return s.put(ctx, NSMessageDrafts, d.ProfileID, d, NSMessageDrafts.TTL())
}

// GetDraft returns the live draft for a profile, or nil.
func (s *Store) GetDraft(ctx context.Context, profileID string) (*models.MessageDraft, error) {
	var d models.MessageDraft
	ok, err := s.get(ctx, NSMessageDrafts, profileID, &d)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

// --- Outreach history ---

// PutOutreach stores an outreach entry. Retention depends on the
// caller-supplied subscription at write time only: five days on the free
// tier, indefinite on a paid plan. The decision is baked into the record's
// expiry rather than recomputed on read.
func (s *Store) PutOutreach(ctx context.Context, e *models.OutreachEntry, sub *models.Subscription) error {
	if e.ProfileID == "" {
		return fmt.Errorf("outreach entry requires a profile ID")
	}
	ttl := FreeOutreachTTL
	if sub != nil && sub.Tier == models.TierPaid {
		ttl = 0
	}
	return s.put(ctx, NSOutreachHistory, e.ProfileID, e, ttl)
}

// GetOutreach returns the live outreach entry for a profile, or nil.
func (s *Store) GetOutreach(ctx context.Context, profileID string) (*models.OutreachEntry, error) {
	var e models.OutreachEntry
	ok, err := s.get(ctx, NSOutreachHistory, profileID, &e)
	if err != nil || !ok {
		return nil, err
	}
	return &e, nil
}

// ListOutreach returns every live outreach entry, skipping (and deleting)
// expired ones.
func (s *Store) ListOutreach(ctx context.Context) ([]models.OutreachEntry, error) {
	raw, err := s.backend.List(ctx, DomainLocal, NSOutreachHistory)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	now := s.now()
	var out []models.OutreachEntry
	for key, value := range raw {
		var env envelope
		if err := json.Unmarshal(value, &env); err != nil || env.expired(now) {
			_ = s.backend.Delete(ctx, DomainLocal, NSOutreachHistory, key)
			continue
		}
		var e models.OutreachEntry
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// --- Sync-domain singletons ---

// PutUserProfile stores the user's own profile.
func (s *Store) PutUserProfile(ctx context.Context, u *models.UserProfile) error {
	if u.UserID == "" {
		return fmt.Errorf("user profile requires a user ID")
	}
	return s.put(ctx, NSUserProfile, u.UserID, u, 0)
}

// GetUserProfile returns the stored user profile, or nil.
func (s *Store) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var u models.UserProfile
	ok, err := s.get(ctx, NSUserProfile, userID, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

// PutSettings stores per-user settings.
func (s *Store) PutSettings(ctx context.Context, cfg *models.Settings) error {
	if cfg.UserID == "" {
		return fmt.Errorf("settings require a user ID")
	}
	return s.put(ctx, NSSettings, cfg.UserID, cfg, 0)
}

// GetSettings returns stored settings, or nil.
func (s *Store) GetSettings(ctx context.Context, userID string) (*models.Settings, error) {
	var cfg models.Settings
	ok, err := s.get(ctx, NSSettings, userID, &cfg)
	if err != nil || !ok {
		return nil, err
	}
	return &cfg, nil
}

// PutSubscription stores the user's subscription record.
func (s *Store) PutSubscription(ctx context.Context, sub *models.Subscription) error {
	if sub.UserID == "" {
		return fmt.Errorf("subscription requires a user ID")
	}
	return s.put(ctx, NSSubscription, sub.UserID, sub, 0)
}

// GetSubscription returns the stored subscription, or nil.
func (s *Store) GetSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	ok, err := s.get(ctx, NSSubscription, userID, &sub)
	if err != nil || !ok {
		return nil, err
	}
	return &sub, nil
}

// --- Maintenance ---

// SweepExpired scans every namespace and removes expired records, returning
// the number removed. It bounds worst-case growth between lazy reads.
func (s *Store) SweepExpired(ctx context.Context) (int, error) {
	now := s.now()
	removed := 0

	for _, ns := range AllNamespaces {
		raw, err := s.backend.List(ctx, ns.Domain(), ns)
		if err != nil {
			return removed, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		for key, value := range raw {
			var env envelope
			if err := json.Unmarshal(value, &env); err == nil && !env.expired(now) {
				continue
			}
			if err := s.backend.Delete(ctx, ns.Domain(), ns, key); err != nil {
				return removed, fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
			removed++
		}
	}

	if removed > 0 {
		log.Debug().Int("removed", removed).Msg("Sweep removed expired records")
	}
	return removed, nil
}

// QuotaUsage reports a domain's occupancy.
func (s *Store) QuotaUsage(ctx context.Context, d Domain) (Usage, error) {
	used, err := s.backend.Usage(ctx, d)
	if err != nil {
		return Usage{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return Usage{Domain: d, Used: used, Capacity: d.Capacity()}, nil
}

// Wipe clears both domains entirely. This is the explicit privacy wipe; it
// is the only bulk deletion the layer performs.
func (s *Store) Wipe(ctx context.Context) error {
	for _, d := range []Domain{DomainSync, DomainLocal} {
		if err := s.backend.Clear(ctx, d); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	log.Info().Msg("All stored data wiped")
	return nil
}

// --- internal plumbing ---

func (s *Store) put(ctx context.Context, ns Namespace, key string, payload any, ttl time.Duration) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s record: %w", ns, err)
	}

	now := s.now().UTC()
	env := envelope{
		Schema:    schemaVersion,
		CreatedAt: now,
		Payload:   body,
	}
	if ttl > 0 {
		env.ExpiresAt = now.Add(ttl)
	}

	value, err := json.Marshal(&env)
	if err != nil {
		return fmt.Errorf("encoding %s envelope: %w", ns, err)
	}

	if err := s.checkQuota(ctx, ns, key, int64(len(value))); err != nil {
		return err
	}

	if err := s.backend.Put(ctx, ns.Domain(), ns, key, value); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	log.Debug().
		Str("namespace", string(ns)).
		Str("key", key).
		Int("bytes", len(value)).
		Msg("Record stored")
	return nil
}

// checkQuota verifies the write fits its domain, accounting for the record
// it replaces.
func (s *Store) checkQuota(ctx context.Context, ns Namespace, key string, size int64) error {
	d := ns.Domain()
	used, err := s.backend.Usage(ctx, d)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if prev, err := s.backend.Get(ctx, d, ns, key); err == nil {
		used -= int64(len(prev))
	}

	if used+size > d.Capacity() {
		return &QuotaError{Domain: d, Used: used, Needed: size, Capacity: d.Capacity()}
	}
	return nil
}

// get decodes a live record into out. An expired record is deleted as a side
// effect and reported as absent.
func (s *Store) get(ctx context.Context, ns Namespace, key string, out any) (bool, error) {
	value, err := s.backend.Get(ctx, ns.Domain(), ns, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(value, &env); err != nil {
		// Undecodable records are garbage; drop them like expired ones.
		_ = s.backend.Delete(ctx, ns.Domain(), ns, key)
		return false, nil
	}

	if env.expired(s.now()) {
		if err := s.backend.Delete(ctx, ns.Domain(), ns, key); err != nil {
			return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		log.Debug().Str("namespace", string(ns)).Str("key", key).Msg("Expired record removed on read")
		return false, nil
	}

	if err := json.Unmarshal(env.Payload, out); err != nil {
		return false, fmt.Errorf("decoding %s record: %w", ns, err)
	}
	return true, nil
}

func (s *Store) delete(ctx context.Context, ns Namespace, key string) error {
	if err := s.backend.Delete(ctx, ns.Domain(), ns, key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
