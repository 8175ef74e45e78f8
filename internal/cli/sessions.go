// internal/cli/sessions.go
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/law-makers/prospect/internal/auth"
	"github.com/law-makers/prospect/internal/ui"
)

var importURL string

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved login sessions",
	Long: `List, view, import, and delete saved login sessions.

Sessions are stored in your OS keyring (or a file fallback) and hold the
cookies used for authenticated extraction.`,
	Example: `  # List all saved sessions
  prospect sessions list

  # View a session
  prospect sessions view work

  # Import cookies exported from browser DevTools
  prospect sessions import work --url https://www.example-network.com < cookies.json

  # Delete a session
  prospect sessions delete work`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved sessions",
	RunE:  runSessionsList,
}

var sessionsViewCmd = &cobra.Command{
	Use:   "view <session-name>",
	Short: "View details of a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsView,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-name>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var sessionsImportCmd = &cobra.Command{
	Use:   "import <session-name>",
	Short: "Import cookies from stdin to create a session",
	Long: `Reads a JSON cookie export (the array produced by browser DevTools or a
cookie extension) from stdin and saves it as a session. Useful in headless
environments where the interactive login browser cannot run.`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionsImport,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsViewCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsImportCmd)

	sessionsImportCmd.Flags().StringVar(&importURL, "url", "", "Site URL for this session (required)")
	sessionsImportCmd.MarkFlagRequired("url")
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	sessions, err := auth.ListSessions()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No saved sessions. Create one with: prospect login --url <login-url>")
		return nil
	}

	fmt.Printf("\n%s\n\n", ui.Bold(fmt.Sprintf("Saved sessions (%d)", len(sessions))))
	for _, name := range sessions {
		fmt.Printf("  %s\n", ui.Bold(name))

		session, err := auth.LoadSession(name)
		if err != nil {
			fmt.Printf("    %s\n", ui.Error(fmt.Sprintf("error loading: %v", err)))
			continue
		}

		fmt.Printf("    URL: %s\n", session.URL)
		fmt.Printf("    Cookies: %d\n", len(session.Cookies))
		fmt.Printf("    Created: %s\n", session.CreatedAt.Format(time.RFC1123))
		if !session.ExpiresAt.IsZero() {
			if time.Now().After(session.ExpiresAt) {
				fmt.Printf("    Status: %s\n", ui.Error("expired"))
			} else {
				fmt.Printf("    Expires: %s\n", session.ExpiresAt.Format(time.RFC1123))
			}
		}
	}
	fmt.Println()
	return nil
}

func runSessionsView(cmd *cobra.Command, args []string) error {
	name := args[0]

	session, err := auth.LoadSession(name)
	if err != nil {
		return fmt.Errorf("failed to load session %q: %w", name, err)
	}

	fmt.Printf("\n%s\n\n", ui.Bold("Session: "+name))
	fmt.Printf("URL:      %s\n", session.URL)
	fmt.Printf("Created:  %s\n", session.CreatedAt.Format(time.RFC1123))
	if !session.ExpiresAt.IsZero() {
		fmt.Printf("Expires:  %s\n", session.ExpiresAt.Format(time.RFC1123))
	}

	fmt.Printf("\nCookies (%d):\n", len(session.Cookies))
	for i, cookie := range session.Cookies {
		if i >= 5 {
			fmt.Printf("  ... and %d more\n", len(session.Cookies)-5)
			break
		}
		fmt.Printf("  %s (domain: %s)\n", cookie.Name, cookie.Domain)
	}
	fmt.Println()
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	fmt.Printf("Delete session %q? [y/N]: ", name)
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "y" && confirm != "Y" {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := auth.DeleteSession(name); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	fmt.Printf("%s\n", ui.Success(fmt.Sprintf("Session %q deleted", name)))
	return nil
}

func runSessionsImport(cmd *cobra.Command, args []string) error {
	name := args[0]

	var cookies []auth.Cookie
	if err := json.NewDecoder(os.Stdin).Decode(&cookies); err != nil {
		return fmt.Errorf("failed to parse cookie JSON: %w", err)
	}
	if len(cookies) == 0 {
		return fmt.Errorf("no cookies in input")
	}

	session := &auth.SessionData{
		Name:      name,
		URL:       importURL,
		Cookies:   cookies,
		Headers:   make(map[string]string),
		CreatedAt: time.Now(),
	}

	var earliest time.Time
	for _, c := range cookies {
		if c.Expires > 0 {
			expiry := time.Unix(int64(c.Expires), 0)
			if earliest.IsZero() || expiry.Before(earliest) {
				earliest = expiry
			}
		}
	}
	session.ExpiresAt = earliest

	if err := auth.SaveSession(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Printf("%s\n", ui.Success(fmt.Sprintf("Imported %d cookies as session %q", len(cookies), name)))
	return nil
}
