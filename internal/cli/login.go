// internal/cli/login.go
package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/prospect/internal/auth"
	"github.com/law-makers/prospect/internal/ui"
)

var (
	loginSession  string
	loginWait     string
	loginTimeout  string
	loginStartURL string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the network and save the session",
	Long: `Opens a visible browser window for you to log in manually. Once the feed
appears, cookies are extracted and stored in your OS keyring; extraction
commands then run authenticated.`,
	Example: `  # Log in and save as the default session
  prospect login --url https://www.example-network.com/login

  # Save under a name and use it later
  prospect login --url https://www.example-network.com/login --session work
  prospect extract https://www.example-network.com/in/jane-doe --session work`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&loginStartURL, "url", "", "Login page URL (required)")
	loginCmd.Flags().StringVarP(&loginSession, "session", "s", auth.DefaultSessionName, "Session name to save")
	loginCmd.Flags().StringVarP(&loginWait, "wait", "w", "", "CSS selector that appears once logged in")
	loginCmd.Flags().StringVar(&loginTimeout, "login-timeout", "5m", "Timeout for the login process")
	loginCmd.MarkFlagRequired("url")
}

func runLogin(cmd *cobra.Command, args []string) error {
	timeout, err := time.ParseDuration(loginTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	log.Info().
		Str("url", loginStartURL).
		Str("session", loginSession).
		Msg("Initiating login")

	session, err := auth.InteractiveLogin(auth.LoginOptions{
		SessionName:  loginSession,
		URL:          loginStartURL,
		WaitSelector: loginWait,
		Timeout:      timeout,
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := auth.SaveSession(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Println(ui.Success("Session saved"))
	if !session.ExpiresAt.IsZero() {
		fmt.Printf("Session expires: %s\n", session.ExpiresAt.Format(time.RFC1123))
	}
	return nil
}
