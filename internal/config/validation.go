package config

import "fmt"

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.MaxAttempts <= 0 || c.MaxAttempts > MaxAllowedAttempts {
		return fmt.Errorf("max attempts must be between 1 and %d", MaxAllowedAttempts)
	}
	if c.BackoffBase <= 0 {
		return fmt.Errorf("backoff base must be > 0")
	}
	switch c.RenderMode {
	case "static", "dynamic":
	default:
		return fmt.Errorf("render mode must be static or dynamic, got %q", c.RenderMode)
	}
	switch c.StorageBackend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("storage backend must be sqlite or memory, got %q", c.StorageBackend)
	}
	return nil
}
