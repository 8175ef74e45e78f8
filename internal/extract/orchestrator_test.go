package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/law-makers/prospect/pkg/models"
)

// stubSource serves a fixed document and counts nudges.
type stubSource struct {
	html    string
	url     string
	docs    int
	nudges  int
	docErr  error
	nudgeFn func(context.Context) error
}

func (s *stubSource) Document(_ context.Context) (*goquery.Document, string, error) {
	s.docs++
	if s.docErr != nil {
		return nil, "", s.docErr
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.html))
	return doc, s.url, err
}

func (s *stubSource) Nudge(ctx context.Context) error {
	s.nudges++
	if s.nudgeFn != nil {
		return s.nudgeFn(ctx)
	}
	return nil
}

func noSleep(_ context.Context, _ time.Duration) error { return nil }

func TestOrchestrator_SuccessFirstAttempt(t *testing.T) {
	src := &stubSource{html: fullFixture, url: profileURL}
	o := NewOrchestrator(WithSleepFunc(noSleep))

	p, err := o.Extract(context.Background(), src)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if p.Quality != models.QualityComplete {
		t.Errorf("Quality = %q, want complete", p.Quality)
	}
	if src.docs != 1 {
		t.Errorf("attempts = %d, want 1", src.docs)
	}
	if src.nudges != 0 {
		t.Errorf("nudges = %d, want 0", src.nudges)
	}
}

func TestOrchestrator_MinimalIsSuccess(t *testing.T) {
	// A structurally valid page with nothing but a name still succeeds.
	src := &stubSource{
		html: `<html><body><h1 class="top-card__name">Jane Doe</h1></body></html>`,
		url:  profileURL,
	}
	o := NewOrchestrator(WithSleepFunc(noSleep))

	p, err := o.Extract(context.Background(), src)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if p.Quality != models.QualityMinimal {
		t.Errorf("Quality = %q, want minimal", p.Quality)
	}
	if src.docs != 1 {
		t.Errorf("attempts = %d, want 1; degraded results must not be retried", src.docs)
	}
}

func TestOrchestrator_RetriesExactlyMaxAttempts(t *testing.T) {
	attempts := 0
	failing := func(_ *goquery.Document, _ string) (*models.TargetProfile, error) {
		attempts++
		return &models.TargetProfile{ProfileURL: profileURL}, &MissingFieldError{Field: models.FieldName}
	}

	var delays []time.Duration
	src := &stubSource{html: "<html></html>", url: profileURL}
	o := NewOrchestrator(
		WithMaxAttempts(3),
		WithAssembleFunc(failing),
		WithSleepFunc(func(_ context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		}),
	)

	_, err := o.Extract(context.Background(), src)

	var failure *FailedError
	if !errors.As(err, &failure) {
		t.Fatalf("err = %v, want FailedError", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want exactly 3", attempts)
	}
	if failure.Attempts != 3 {
		t.Errorf("FailedError.Attempts = %d, want 3", failure.Attempts)
	}
	if failure.Quality != models.QualityMinimal {
		t.Errorf("FailedError.Quality = %q, want minimal", failure.Quality)
	}
	found := false
	for _, f := range failure.MissingFields {
		if f == models.FieldName {
			found = true
		}
	}
	if !found {
		t.Errorf("FailedError.MissingFields = %v, want to include name", failure.MissingFields)
	}

	// Backoff grows linearly with the attempt number and the page is nudged
	// before each retry.
	want := []time.Duration{2000 * time.Millisecond, 4000 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delays[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
	if src.nudges != 2 {
		t.Errorf("nudges = %d, want 2", src.nudges)
	}
}

func TestOrchestrator_InvalidPageNotRetried(t *testing.T) {
	src := &stubSource{html: fullFixture, url: "https://www.example-network.com/feed/"}
	o := NewOrchestrator(WithSleepFunc(noSleep))

	_, err := o.Extract(context.Background(), src)
	if !errors.Is(err, ErrInvalidPage) {
		t.Fatalf("err = %v, want ErrInvalidPage", err)
	}
	if src.docs != 1 {
		t.Errorf("attempts = %d, want 1; invalid pages must not be retried", src.docs)
	}
}

func TestOrchestrator_CancelDuringBackoff(t *testing.T) {
	failing := func(_ *goquery.Document, _ string) (*models.TargetProfile, error) {
		return nil, &MissingFieldError{Field: models.FieldName}
	}

	ctx, cancel := context.WithCancel(context.Background())
	src := &stubSource{html: "<html></html>", url: profileURL}
	o := NewOrchestrator(
		WithAssembleFunc(failing),
		WithSleepFunc(func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		}),
	)

	_, err := o.Extract(ctx, src)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if src.docs != 1 {
		t.Errorf("attempts = %d, want 1 before cancellation", src.docs)
	}
}
