package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Extraction
	MaxAttempts int
	BackoffBase time.Duration
	HTTPTimeout time.Duration
	UserAgent   string

	// Page rendering
	BrowserHeadless bool
	RenderMode      string // "static", "dynamic"

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Storage
	StorageBackend string // "sqlite", "memory"
	DataDir        string
	SweepSchedule  string

	// Sessions
	SessionName string

	// RPC server
	ListenAddr string
}

// Load builds a Config by combining defaults, environment variables, and CLI
// flags. Caller should pass the root *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{
		LogLevel:        DefaultLogLevel,
		JSONLog:         DefaultJSONLog,
		MaxAttempts:     DefaultMaxAttempts,
		BackoffBase:     DefaultBackoffBase,
		HTTPTimeout:     DefaultHTTPTimeout,
		BrowserHeadless: DefaultBrowserHeadless,
		RenderMode:      DefaultRenderMode,
		RateLimitRPS:    DefaultRateLimitRPS,
		RateLimitBurst:  DefaultRateLimitBurst,
		StorageBackend:  DefaultStorageBackend,
		SweepSchedule:   DefaultSweepSchedule,
		ListenAddr:      DefaultListenAddr,
	}

	if dir, err := defaultDataDir(); err == nil {
		cfg.DataDir = dir
	}

	// Override from environment variables
	if v := os.Getenv("PROSPECT_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("PROSPECT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PROSPECT_STORAGE"); v != "" {
		cfg.StorageBackend = v
	}
	if v := os.Getenv("PROSPECT_SWEEP_SCHEDULE"); v != "" {
		cfg.SweepSchedule = v
	}
	if v := os.Getenv("PROSPECT_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxAttempts = n
		}
	}

	// Read CLI flags if provided
	if cmd != nil {
		if f := cmd.Flags().Lookup("session"); f != nil {
			cfg.SessionName = f.Value.String()
		}
		if f := cmd.Flags().Lookup("render"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.RenderMode = s
			}
		}
		if f := cmd.Flags().Lookup("max-attempts"); f != nil {
			if n, err := strconv.Atoi(f.Value.String()); err == nil && n > 0 {
				cfg.MaxAttempts = n
			}
		}
		if f := cmd.Flags().Lookup("timeout"); f != nil {
			if d, err := time.ParseDuration(f.Value.String()); err == nil {
				cfg.HTTPTimeout = d
			}
		}
		if f := cmd.Flags().Lookup("data-dir"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.DataDir = s
			}
		}
		if f := cmd.Flags().Lookup("storage"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.StorageBackend = s
			}
		}
		if f := cmd.Flags().Lookup("listen"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.ListenAddr = s
			}
		}
		if f := cmd.Flags().Lookup("json"); f != nil {
			if f.Value.String() == "true" {
				cfg.JSONLog = true
			}
		}
		if f := cmd.Flags().Lookup("verbose"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "debug"
			}
		}
		if f := cmd.Flags().Lookup("quiet"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "error"
			}
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// defaultDataDir returns ~/.prospect, creating it if needed.
func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := home + "/.prospect"
	return dir, os.MkdirAll(dir, 0700)
}
