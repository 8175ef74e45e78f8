// internal/cli/batch.go
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/prospect/internal/urlutil"
)

var batchOutput string

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Extract profiles for a list of URLs",
	Long: `Reads profile URLs from a file (one per line, # comments allowed) and
extracts each in turn. Fetches are paced by the rate limiter, so large lists
take a while on purpose.

Results are written as JSON lines; failures are recorded with their error
and do not stop the run.`,
	Example: `  # Extract a list of prospects
  prospect batch prospects.txt

  # Write results to a file
  prospect batch prospects.txt -o results.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "File to write JSON lines results to (default stdout)")
}

type batchResult struct {
	URL     string          `json:"url"`
	Profile json.RawMessage `json:"profile,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	urls, err := readURLList(args[0])
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", args[0])
	}

	out := os.Stdout
	if batchOutput != "" {
		f, err := os.Create(batchOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	application := GetApp()
	bar := progressbar.Default(int64(len(urls)), "extracting")
	enc := json.NewEncoder(out)

	var failures int
	for _, pageURL := range urls {
		res := batchResult{URL: pageURL}

		profile, err := application.ExtractProfile(cmd.Context(), pageURL, false)
		if err != nil {
			if cmd.Context().Err() != nil {
				return cmd.Context().Err()
			}
			res.Error = err.Error()
			failures++
			log.Warn().Err(err).Str("url", pageURL).Msg("Batch extraction failed")
		} else if raw, err := json.Marshal(profile); err == nil {
			res.Profile = raw
		}

		if err := enc.Encode(&res); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		bar.Add(1)
	}

	fmt.Fprintf(os.Stderr, "\n%d extracted, %d failed\n", len(urls)-failures, failures)
	return nil
}

func readURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := urlutil.ValidateURL(line); err != nil {
			log.Warn().Str("url", line).Msg("Skipping invalid URL")
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
