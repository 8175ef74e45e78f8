package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel        = "info"
	DefaultJSONLog         = false
	DefaultMaxAttempts     = 3
	DefaultBackoffBase     = 2 * time.Second
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultBrowserHeadless = true
	DefaultRenderMode      = "dynamic"
	DefaultRateLimitRPS    = 0.5
	DefaultRateLimitBurst  = 2
	DefaultStorageBackend  = "sqlite"
	DefaultSweepSchedule   = "@daily"
	DefaultListenAddr      = ":8714"
	MaxAllowedAttempts     = 10
)
