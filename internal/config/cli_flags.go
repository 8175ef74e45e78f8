package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Log in JSON format")
	cmd.PersistentFlags().String("session", "", "Stored login session to use")
	cmd.PersistentFlags().String("render", "", "Page rendering mode: static or dynamic")
	cmd.PersistentFlags().Int("max-attempts", DefaultMaxAttempts, "Extraction attempts before giving up")
	cmd.PersistentFlags().String("timeout", "30s", "Hard timeout per page fetch")
	cmd.PersistentFlags().String("data-dir", "", "Directory for the local database")
	cmd.PersistentFlags().String("storage", "", "Storage backend: sqlite or memory")
}
