package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/law-makers/prospect/internal/extract"
	"github.com/law-makers/prospect/internal/store"
	"github.com/law-makers/prospect/pkg/models"
)

func testHandler(t *testing.T, extractFn Extractor) (http.Handler, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemoryBackend())
	if extractFn == nil {
		extractFn = func(ctx context.Context, pageURL string, force bool) (*models.TargetProfile, error) {
			return &models.TargetProfile{ID: "stub", ProfileURL: pageURL, Name: "Jane Doe", Quality: models.QualityComplete}, nil
		}
	}
	return NewHandler(Deps{Store: st, Extract: extractFn}), st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := testHandler(t, nil)
	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestExtract_OK(t *testing.T) {
	h, _ := testHandler(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/v1/extract", extractRequest{URL: "https://www.example-network.com/in/jane-doe"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var got models.TargetProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Name != "Jane Doe" {
		t.Errorf("profile name = %q", got.Name)
	}
}

func TestExtract_BadURL(t *testing.T) {
	h, _ := testHandler(t, nil)
	rec := doJSON(t, h, http.MethodPost, "/v1/extract", extractRequest{URL: "not a url"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error.Code == "" || resp.Error.Message == "" {
		t.Errorf("error payload missing code or message: %+v", resp.Error)
	}
}

func TestExtract_FailedReportsQuality(t *testing.T) {
	h, _ := testHandler(t, func(ctx context.Context, pageURL string, force bool) (*models.TargetProfile, error) {
		return nil, &extract.FailedError{
			Attempts:      3,
			Quality:       models.QualityMinimal,
			MissingFields: []string{models.FieldJobTitle, models.FieldCompany},
			Last:          fmt.Errorf("selectors failed"),
		}
	})

	rec := doJSON(t, h, http.MethodPost, "/v1/extract", extractRequest{URL: "https://www.example-network.com/in/jane-doe"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var resp struct {
		Error struct {
			Code          string   `json:"code"`
			Attempts      int      `json:"attempts"`
			Quality       string   `json:"quality"`
			MissingFields []string `json:"missing_fields"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error.Code != "extraction_failed" || resp.Error.Attempts != 3 {
		t.Errorf("error payload = %+v", resp.Error)
	}
	if resp.Error.Quality != string(models.QualityMinimal) {
		t.Errorf("quality = %q", resp.Error.Quality)
	}
	if len(resp.Error.MissingFields) != 2 {
		t.Errorf("missing fields = %v", resp.Error.MissingFields)
	}
}

func TestProfileRoutes(t *testing.T) {
	h, st := testHandler(t, nil)
	ctx := context.Background()

	if err := st.PutProfile(ctx, &models.TargetProfile{ID: "p1", Name: "Jane Doe", Quality: models.QualityComplete}); err != nil {
		t.Fatalf("PutProfile: %v", err)
	}

	rec := doJSON(t, h, http.MethodGet, "/v1/profiles/p1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/profiles/absent", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("absent status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, h, http.MethodDelete, "/v1/profiles/p1", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
	if got, _ := st.GetProfile(ctx, "p1"); got != nil {
		t.Error("profile still present after delete")
	}
}

func TestAnalysisRoutes(t *testing.T) {
	h, _ := testHandler(t, nil)

	a := models.ProfileAnalysis{ProfileID: "p1", UserID: "u1", Body: "insightful"}
	rec := doJSON(t, h, http.MethodPut, "/v1/analyses", a)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/analyses/p1?user=u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// Missing user parameter is a client error.
	rec = doJSON(t, h, http.MethodGet, "/v1/analyses/p1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("no-user status = %d, want 400", rec.Code)
	}
}

func TestOutreachRoutes(t *testing.T) {
	h, _ := testHandler(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/v1/outreach", outreachRequest{
		OutreachEntry: models.OutreachEntry{ProfileID: "p1", Message: "hello"},
		Tier:          models.TierFree,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("post status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/outreach", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var entries []models.OutreachEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("list length = %d, want 1", len(entries))
	}
}

func TestQuotaRoute(t *testing.T) {
	h, _ := testHandler(t, nil)

	rec := doJSON(t, h, http.MethodGet, "/v1/quota", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var usages []store.Usage
	if err := json.Unmarshal(rec.Body.Bytes(), &usages); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(usages) != 2 {
		t.Errorf("usages = %d, want sync and local", len(usages))
	}
}

func TestSweepAndWipe(t *testing.T) {
	h, st := testHandler(t, nil)
	ctx := context.Background()

	if err := st.PutProfile(ctx, &models.TargetProfile{ID: "p1", Name: "Jane Doe"}); err != nil {
		t.Fatalf("PutProfile: %v", err)
	}

	rec := doJSON(t, h, http.MethodPost, "/v1/sweep", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sweep status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodDelete, "/v1/data", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("wipe status = %d", rec.Code)
	}
	if got, _ := st.GetProfile(ctx, "p1"); got != nil {
		t.Error("profile survived wipe")
	}
}
