// internal/cli/data.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/law-makers/prospect/internal/store"
	"github.com/law-makers/prospect/internal/ui"
)

// dataCmd represents the data command
var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Inspect and maintain the local store",
	Long: `Shows quota usage, removes expired records, and wipes all stored data.

Expired records normally disappear on read or during the daily sweep; the
sweep subcommand forces one immediately.`,
	Example: `  # Show quota usage
  prospect data stats

  # Remove expired records now
  prospect data sweep

  # Erase everything
  prospect data wipe`,
}

var dataStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show storage quota usage",
	RunE:  runDataStats,
}

var dataSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove expired records immediately",
	RunE:  runDataSweep,
}

var dataWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Erase all stored data",
	RunE:  runDataWipe,
}

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataStatsCmd)
	dataCmd.AddCommand(dataSweepCmd)
	dataCmd.AddCommand(dataWipeCmd)
}

func runDataStats(cmd *cobra.Command, args []string) error {
	application := GetApp()

	fmt.Printf("\n%s\n\n", ui.Bold("Storage usage"))
	for _, d := range []store.Domain{store.DomainSync, store.DomainLocal} {
		u, err := application.Store.QuotaUsage(cmd.Context(), d)
		if err != nil {
			return err
		}
		pct := 0.0
		if u.Capacity > 0 {
			pct = float64(u.Used) / float64(u.Capacity) * 100
		}
		fmt.Printf("  %-6s  %s of %s (%.1f%%)\n", d, formatBytes(u.Used), formatBytes(u.Capacity), pct)
	}
	fmt.Println()
	return nil
}

func runDataSweep(cmd *cobra.Command, args []string) error {
	application := GetApp()

	removed, err := application.Store.SweepExpired(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", ui.Success(fmt.Sprintf("Removed %d expired records", removed)))
	return nil
}

func runDataWipe(cmd *cobra.Command, args []string) error {
	application := GetApp()

	fmt.Print("Erase ALL stored profiles, drafts, and history? [y/N]: ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "y" && confirm != "Y" {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := application.Store.Wipe(cmd.Context()); err != nil {
		return err
	}
	fmt.Printf("%s\n", ui.Success("All data erased"))
	return nil
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}
