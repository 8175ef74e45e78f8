package extract

import (
	"context"
	"errors"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/prospect/pkg/models"
)

// Source provides the orchestrator with a fresh document per attempt and a
// way to nudge the page into rendering lazy sections. Each attempt re-reads
// live state; nothing is carried over because intervening DOM mutations can
// invalidate previously-found nodes.
type Source interface {
	// Document returns the current document and its page URL.
	Document(ctx context.Context) (*goquery.Document, string, error)
	// Nudge scrolls the page to the middle and back to the top to trigger
	// lazy rendering. Implementations without a live page may no-op.
	Nudge(ctx context.Context) error
}

// Orchestrator state machine states.
type state int

const (
	stateStart state = iota
	stateBackoff
	stateDone
	stateFailed
)

const (
	// DefaultMaxAttempts bounds the retry loop.
	DefaultMaxAttempts = 3
	// DefaultBackoffBase is multiplied by the attempt number between tries.
	DefaultBackoffBase = 2000 * time.Millisecond
)

// Orchestrator drives assemble+classify with bounded retries and
// inter-attempt backoff. A structural success ends the run regardless of
// quality tier; minimal-quality results are valid results, not failures.
type Orchestrator struct {
	maxAttempts int
	backoffBase time.Duration
	assemble    func(doc *goquery.Document, pageURL string) (*models.TargetProfile, error)
	sleep       func(ctx context.Context, d time.Duration) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxAttempts overrides the attempt bound.
func WithMaxAttempts(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithBackoffBase overrides the per-attempt backoff multiplier base.
func WithBackoffBase(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d >= 0 {
			o.backoffBase = d
		}
	}
}

// WithAssembleFunc replaces the assembler invocation, for tests.
func WithAssembleFunc(fn func(*goquery.Document, string) (*models.TargetProfile, error)) Option {
	return func(o *Orchestrator) { o.assemble = fn }
}

// WithSleepFunc replaces the backoff delay, for deterministic tests without
// real timers.
func WithSleepFunc(fn func(context.Context, time.Duration) error) Option {
	return func(o *Orchestrator) { o.sleep = fn }
}

// NewOrchestrator builds an Orchestrator with defaults applied.
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		maxAttempts: DefaultMaxAttempts,
		backoffBase: DefaultBackoffBase,
		assemble:    NewAssembler().Assemble,
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Extract runs the retry state machine against src until a profile is
// assembled, the page proves invalid, the context is cancelled, or attempts
// are exhausted.
func (o *Orchestrator) Extract(ctx context.Context, src Source) (*models.TargetProfile, error) {
	var (
		st       = stateStart
		attempt  int
		profile  *models.TargetProfile
		lastPart *models.TargetProfile
		lastErr  error
	)

	for {
		switch st {
		case stateStart:
			attempt++
			p, err := o.attempt(ctx, src)
			switch {
			case err == nil:
				profile = p
				st = stateDone
			case errors.Is(err, ErrInvalidPage):
				// Wrong page family is fatal immediately; retrying cannot fix it.
				return nil, err
			case ctx.Err() != nil:
				return nil, ctx.Err()
			default:
				lastPart, lastErr = p, err
				log.Debug().
					Int("attempt", attempt).
					Int("max_attempts", o.maxAttempts).
					Err(err).
					Msg("Extraction attempt failed")
				if attempt >= o.maxAttempts {
					st = stateFailed
				} else {
					st = stateBackoff
				}
			}

		case stateBackoff:
			if err := o.sleep(ctx, o.backoffBase*time.Duration(attempt)); err != nil {
				return nil, err
			}
			if err := src.Nudge(ctx); err != nil {
				log.Debug().Err(err).Msg("Page nudge failed")
			}
			st = stateStart

		case stateDone:
			return profile, nil

		case stateFailed:
			failure := &FailedError{
				Attempts: attempt,
				Quality:  models.QualityMinimal,
				Last:     lastErr,
			}
			if lastPart != nil {
				// Classify the last partial assembly so the terminal error
				// reports what was recoverable.
				Classify(lastPart)
				failure.Quality = lastPart.Quality
				failure.MissingFields = lastPart.MissingFields
			}
			return nil, failure
		}
	}
}

// attempt performs one full assemble+classify pass against a fresh document.
func (o *Orchestrator) attempt(ctx context.Context, src Source) (*models.TargetProfile, error) {
	doc, pageURL, err := src.Document(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := o.assemble(doc, pageURL)
	if err != nil {
		return profile, err
	}

	Classify(profile)
	return profile, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
