// internal/cli/extract.go
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/prospect/internal/extract"
	"github.com/law-makers/prospect/internal/ui"
	"github.com/law-makers/prospect/internal/urlutil"
	"github.com/law-makers/prospect/pkg/models"
)

var (
	extractOutput  string
	extractFixture string
	extractForce   bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract a structured profile from a profile page",
	Long: `Fetches a profile page, pulls its fields through the selector fallback
chains, and grades the result as complete, partial, or minimal.

Recently extracted profiles are served from the local cache; pass --force to
re-fetch. Saved pages can be extracted offline with --fixture.`,
	Example: `  # Extract a profile
  prospect extract https://www.example-network.com/in/jane-doe

  # Re-fetch even if a cached copy exists
  prospect extract https://www.example-network.com/in/jane-doe --force

  # Extract from a saved page
  prospect extract https://www.example-network.com/in/jane-doe --fixture=page.html

  # Save the result as JSON
  prospect extract https://www.example-network.com/in/jane-doe -o profile.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "File path to save the profile as JSON")
	extractCmd.Flags().StringVar(&extractFixture, "fixture", "", "Extract from a saved HTML page instead of the live site")
	extractCmd.Flags().BoolVar(&extractForce, "force", false, "Ignore the cached profile and re-fetch")
}

func runExtract(cmd *cobra.Command, args []string) error {
	pageURL := args[0]
	application := GetApp()

	if err := urlutil.ValidateURL(pageURL); err != nil {
		return err
	}
	if !urlutil.IsProfileURL(pageURL) {
		return fmt.Errorf("not a profile URL: %s", pageURL)
	}

	log.Info().Str("url", pageURL).Msg("Extracting profile")

	var profile *models.TargetProfile
	var err error
	if extractFixture != "" {
		profile, err = application.ExtractFromFixture(cmd.Context(), pageURL, extractFixture)
	} else {
		profile, err = application.ExtractProfile(cmd.Context(), pageURL, extractForce)
	}
	if err != nil {
		var failed *extract.FailedError
		if errors.As(err, &failed) {
			fmt.Fprintf(os.Stderr, "%s\n", ui.Error(fmt.Sprintf(
				"Extraction failed after %d attempts (best quality: %s, missing: %s)",
				failed.Attempts, failed.Quality, strings.Join(failed.MissingFields, ", "))))
		}
		return err
	}

	if extractOutput != "" {
		return saveProfile(profile, extractOutput)
	}
	printProfile(profile)
	return nil
}

func saveProfile(profile *models.TargetProfile, path string) error {
	content, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	fmt.Printf("%s\n", ui.Success("Saved to "+path))
	return nil
}

func printProfile(p *models.TargetProfile) {
	fmt.Printf("\n%s\n", ui.Bold(p.Name))
	if p.Headline != "" {
		fmt.Printf("%s\n", p.Headline)
	}
	fmt.Println()
	fmt.Printf("ID:       %s\n", p.ID)
	fmt.Printf("URL:      %s\n", p.ProfileURL)
	if p.CurrentJobTitle != "" {
		fmt.Printf("Title:    %s\n", p.CurrentJobTitle)
	}
	if p.CurrentCompany != "" {
		fmt.Printf("Company:  %s\n", p.CurrentCompany)
	}
	fmt.Printf("Quality:  %s\n", qualityLabel(p.Quality))
	if len(p.MissingFields) > 0 {
		fmt.Printf("Missing:  %s\n", strings.Join(p.MissingFields, ", "))
	}
	fmt.Printf("Extracted: %d roles, %d schools, %d skills, %d posts\n",
		len(p.WorkExperience), len(p.Education), len(p.Skills), len(p.RecentPosts))
	if p.MutualConnections > 0 {
		fmt.Printf("Mutual:   %d connections\n", p.MutualConnections)
	}
	fmt.Println()
}

func qualityLabel(q models.Quality) string {
	switch q {
	case models.QualityComplete:
		return ui.Success(string(q))
	case models.QualityPartial:
		return ui.Info(string(q))
	default:
		return ui.Error(string(q))
	}
}
