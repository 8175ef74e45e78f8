// Package rpc exposes the extraction pipeline and storage layer over HTTP
// for companion tooling: extract a profile, read and write the derived
// artifacts, inspect quota, and wipe.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/prospect/internal/extract"
	"github.com/law-makers/prospect/internal/reqctx"
	"github.com/law-makers/prospect/internal/store"
	"github.com/law-makers/prospect/internal/urlutil"
	"github.com/law-makers/prospect/pkg/models"
)

const maxBodySize = 1 << 20 // 1MB

// Extractor runs the full pipeline for one profile URL.
type Extractor func(ctx context.Context, pageURL string, force bool) (*models.TargetProfile, error)

// Deps carries the handler's dependencies.
type Deps struct {
	Store   *store.Store
	Extract Extractor
}

// requestLogger tags every request with an ID and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := reqctx.WithRequestContext(r.Context())
		rc := reqctx.GetRequestContext(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Debug().
			Str("request_id", rc.RequestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", rc.Elapsed()).
			Msg("Request handled")
	})
}

// NewHandler builds the HTTP API router.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/extract", handleExtract(deps))

		r.Get("/profiles/{id}", handleGetProfile(deps))
		r.Delete("/profiles/{id}", handleDeleteProfile(deps))

		r.Put("/analyses", handlePutAnalysis(deps))
		r.Get("/analyses/{profileID}", handleGetAnalysis(deps))

		r.Put("/drafts", handlePutDraft(deps))
		r.Get("/drafts/{profileID}", handleGetDraft(deps))

		r.Post("/outreach", handlePostOutreach(deps))
		r.Get("/outreach", handleListOutreach(deps))
		r.Get("/outreach/{profileID}", handleGetOutreach(deps))

		r.Get("/quota", handleQuota(deps))
		r.Post("/sweep", handleSweep(deps))
		r.Delete("/data", handleWipe(deps))
	})

	return r
}

type extractRequest struct {
	URL   string `json:"url"`
	Force bool   `json:"force,omitempty"`
}

func handleExtract(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req extractRequest
		if err := decodeBody(w, r, &req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request", "invalid request body: %v", err)
			return
		}
		if err := urlutil.ValidateURL(req.URL); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request", "invalid url: %v", err)
			return
		}

		profile, err := deps.Extract(r.Context(), req.URL, req.Force)
		if err != nil {
			writeExtractError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

// writeExtractError maps pipeline errors onto HTTP responses. A failed
// extraction still reports what was learned about the page.
func writeExtractError(w http.ResponseWriter, err error) {
	var failed *extract.FailedError
	switch {
	case errors.Is(err, extract.ErrInvalidPage):
		httpError(w, http.StatusBadRequest, "invalid_page", "%v", err)
	case errors.As(err, &failed):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": map[string]any{
				"code":           "extraction_failed",
				"message":        failed.Error(),
				"attempts":       failed.Attempts,
				"quality":        failed.Quality,
				"missing_fields": failed.MissingFields,
			},
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		httpError(w, http.StatusGatewayTimeout, "timeout", "%v", err)
	default:
		httpError(w, http.StatusBadGateway, "fetch_failed", "%v", err)
	}
}

func handleGetProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := deps.Store.GetProfile(r.Context(), chi.URLParam(r, "id"))
		respondRecord(w, profile == nil, profile, err)
	}
}

func handleDeleteProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.DeleteProfile(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handlePutAnalysis(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var a models.ProfileAnalysis
		if err := decodeBody(w, r, &a); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request", "invalid request body: %v", err)
			return
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now().UTC()
		}
		if err := deps.Store.PutAnalysis(r.Context(), &a); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &a)
	}
}

func handleGetAnalysis(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		if userID == "" {
			httpError(w, http.StatusBadRequest, "invalid_request", "user query parameter is required")
			return
		}
		a, err := deps.Store.GetAnalysis(r.Context(), chi.URLParam(r, "profileID"), userID)
		respondRecord(w, a == nil, a, err)
	}
}

func handlePutDraft(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d models.MessageDraft
		if err := decodeBody(w, r, &d); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request", "invalid request body: %v", err)
			return
		}
		if d.CreatedAt.IsZero() {
			d.CreatedAt = time.Now().UTC()
		}
		if err := deps.Store.PutDraft(r.Context(), &d); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &d)
	}
}

func handleGetDraft(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := deps.Store.GetDraft(r.Context(), chi.URLParam(r, "profileID"))
		respondRecord(w, d == nil, d, err)
	}
}

type outreachRequest struct {
	models.OutreachEntry
	Tier models.PlanTier `json:"tier,omitempty"`
}

func handlePostOutreach(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req outreachRequest
		if err := decodeBody(w, r, &req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request", "invalid request body: %v", err)
			return
		}
		if req.SentAt.IsZero() {
			req.SentAt = time.Now().UTC()
		}
		var sub *models.Subscription
		if req.Tier != "" {
			sub = &models.Subscription{Tier: req.Tier}
		}
		if err := deps.Store.PutOutreach(r.Context(), &req.OutreachEntry, sub); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &req.OutreachEntry)
	}
}

func handleListOutreach(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := deps.Store.ListOutreach(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if entries == nil {
			entries = []models.OutreachEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func handleGetOutreach(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := deps.Store.GetOutreach(r.Context(), chi.URLParam(r, "profileID"))
		respondRecord(w, e == nil, e, err)
	}
}

func handleQuota(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var usages []store.Usage
		for _, d := range []store.Domain{store.DomainSync, store.DomainLocal} {
			u, err := deps.Store.QuotaUsage(r.Context(), d)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			usages = append(usages, u)
		}
		writeJSON(w, http.StatusOK, usages)
	}
}

func handleSweep(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := deps.Store.SweepExpired(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
	}
}

func handleWipe(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.Wipe(r.Context()); err != nil {
			writeStoreError(w, err)
			return
		}
		log.Info().Msg("Data wiped via API")
		w.WriteHeader(http.StatusNoContent)
	}
}

// respondRecord writes a stored record, a 404 when it is absent or expired,
// or a storage error.
func respondRecord(w http.ResponseWriter, missing bool, record any, err error) {
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if missing {
		httpError(w, http.StatusNotFound, "not_found", "record not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func writeStoreError(w http.ResponseWriter, err error) {
	var quota *store.QuotaError
	switch {
	case errors.As(err, &quota):
		writeJSON(w, http.StatusInsufficientStorage, map[string]any{
			"error": map[string]any{
				"code":     "quota_exceeded",
				"message":  quota.Error(),
				"domain":   quota.Domain,
				"used":     quota.Used,
				"capacity": quota.Capacity,
			},
		})
	case errors.Is(err, store.ErrUnavailable):
		httpError(w, http.StatusServiceUnavailable, "store_unavailable", "%v", err)
	default:
		httpError(w, http.StatusInternalServerError, "internal", "%v", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("Failed to encode response")
	}
}

func httpError(w http.ResponseWriter, status int, code string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	})
}
