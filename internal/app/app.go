// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/prospect/internal/auth"
	"github.com/law-makers/prospect/internal/config"
	"github.com/law-makers/prospect/internal/extract"
	"github.com/law-makers/prospect/internal/page"
	"github.com/law-makers/prospect/internal/ratelimit"
	"github.com/law-makers/prospect/internal/store"
	"github.com/law-makers/prospect/internal/urlutil"
	"github.com/law-makers/prospect/pkg/models"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config       *config.Config
	Logger       *zerolog.Logger
	Store        *store.Store
	Sweeper      *store.Sweeper
	RateLimiter  *ratelimit.HostLimiter
	Orchestrator *extract.Orchestrator
	startTime    time.Time

	session *auth.SessionData
}

// New creates and initializes a new Application with all dependencies.
//
// It configures logging, opens the storage backend, starts the retention
// sweeper, and wires the rate limiter and extraction orchestrator. If any
// step fails, an error is returned and already-opened resources are closed.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logLevel := zerolog.ErrorLevel
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = os.Stderr
	} else {
		logWriter = zerolog.NewConsoleWriter()
	}
	logger := log.Output(logWriter).With().Timestamp().Logger()
	log.Logger = logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")

	var backend store.Backend
	var err error
	switch cfg.StorageBackend {
	case "memory":
		backend = store.NewMemoryBackend()
	default:
		backend, err = store.OpenSQLite(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening storage: %w", err)
		}
	}
	st := store.New(backend)
	logger.Debug().
		Str("backend", cfg.StorageBackend).
		Str("data_dir", cfg.DataDir).
		Msg("Storage initialized")

	sweeper, err := store.NewSweeper(st, cfg.SweepSchedule)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("starting sweeper: %w", err)
	}

	limiter := ratelimit.NewHostLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	orch := extract.NewOrchestrator(
		extract.WithMaxAttempts(cfg.MaxAttempts),
		extract.WithBackoffBase(cfg.BackoffBase),
	)

	app := &Application{
		Config:       cfg,
		Logger:       &logger,
		Store:        st,
		Sweeper:      sweeper,
		RateLimiter:  limiter,
		Orchestrator: orch,
		startTime:    time.Now(),
	}

	logger.Info().Msg("Application initialized")
	return app, nil
}

// Session lazily loads the configured login session. A missing session is
// not fatal; extraction then runs unauthenticated.
func (a *Application) Session() *auth.SessionData {
	if a.session != nil {
		return a.session
	}
	if a.Config.SessionName == "" {
		return nil
	}
	session, err := auth.LoadSession(a.Config.SessionName)
	if err != nil {
		a.Logger.Warn().Err(err).Str("session", a.Config.SessionName).Msg("Failed to load session")
		return nil
	}
	a.session = session
	return session
}

// SourceFor builds the page source for a profile URL according to the
// configured render mode. The returned cleanup must be called when the
// extraction attempt is finished.
func (a *Application) SourceFor(pageURL string) (extract.Source, func()) {
	if a.Config.RenderMode == "static" {
		src := page.NewStaticSource(pageURL,
			page.WithLimiter(a.RateLimiter),
			page.WithSession(a.Session()),
		)
		return src, func() {}
	}

	opts := []page.DynamicOption{}
	if !a.Config.BrowserHeadless {
		opts = append(opts, page.WithVisibleBrowser())
	}
	if s := a.Session(); s != nil {
		opts = append(opts, page.WithDynamicSession(s))
	}
	src := page.NewDynamicSource(pageURL, opts...)
	return src, src.Close
}

// ExtractProfile runs the full pipeline for one URL: fetch, extract with
// retries, classify, and cache the result. A cached live profile is returned
// without touching the page.
func (a *Application) ExtractProfile(ctx context.Context, pageURL string, force bool) (*models.TargetProfile, error) {
	if !force {
		if canonical, err := urlutil.Canonical(pageURL); err == nil {
			if cached, err := a.Store.GetProfile(ctx, urlutil.ProfileID(canonical)); err == nil && cached != nil {
				a.Logger.Debug().Str("url", pageURL).Msg("Profile served from cache")
				return cached, nil
			}
		}
	}

	// The static source paces itself through the limiter; browser
	// navigations are paced here.
	if a.Config.RenderMode != "static" {
		if err := a.RateLimiter.Wait(ctx, pageURL); err != nil {
			return nil, err
		}
	}

	src, cleanup := a.SourceFor(pageURL)
	defer cleanup()

	profile, err := a.Orchestrator.Extract(ctx, src)
	if err != nil {
		return nil, err
	}

	if err := a.Store.PutProfile(ctx, profile); err != nil {
		// A quota failure must not lose the extraction itself.
		a.Logger.Warn().Err(err).Msg("Failed to cache profile")
	}
	return profile, nil
}

// ExtractFromFixture runs the pipeline over a saved page instead of a live one.
func (a *Application) ExtractFromFixture(ctx context.Context, pageURL, path string) (*models.TargetProfile, error) {
	src, err := page.FixtureFromFile(pageURL, path)
	if err != nil {
		return nil, err
	}
	profile, err := a.Orchestrator.Extract(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := a.Store.PutProfile(ctx, profile); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to cache profile")
	}
	return profile, nil
}

// Close gracefully shuts down the application and all its resources.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Info().Msg("Shutting down application")

	if a.Sweeper != nil {
		a.Sweeper.Stop()
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing store")
		}
	}

	a.Logger.Info().Dur("uptime", time.Since(a.startTime)).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
