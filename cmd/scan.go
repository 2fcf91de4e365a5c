package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"modscan/core/config"
	"modscan/core/logger"
	"modscan/feature/conflicts"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a mods directory for resource conflicts",
	Long: `Scans every package file under the mods directory, groups resources
claimed by more than one file and grades each conflict by severity.
Outputs metrics by default or a detailed JSON report with --json flag.
Interrupting the scan (Ctrl-C) discards partial results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		jsonOutput, _ := cmd.Flags().GetBool("json")
		fastMode, _ := cmd.Flags().GetBool("fast")
		noCache, _ := cmd.Flags().GetBool("no-cache")
		suggestOrder, _ := cmd.Flags().GetBool("suggest-order")
		root, _ := cmd.Flags().GetString("root")

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		scanCfg := cfg.Scan
		if root != "" {
			scanCfg.Root = root
		}
		if fastMode {
			scanCfg.FastMode = true
		}
		if noCache {
			scanCfg.UseCache = false
		}
		if scanCfg.Root == "" {
			return fmt.Errorf("no mods directory configured: set --root or SCAN_ROOT")
		}

		logg.Info("Scanning for conflicts (this might take a while)...",
			zap.String("root", scanCfg.Root))

		svc := conflicts.NewService(scanCfg, logg, nil)
		result, err := svc.ScanSync(ctx, nil)
		if err != nil {
			return fmt.Errorf("conflict scan failed: %w", err)
		}

		if result.Stats.Cancelled {
			fmt.Println("\nScan cancelled; partial results discarded.")
			return nil
		}

		// Tally severities for the metrics block
		bySeverity := make(map[conflicts.Severity]int)
		for _, rec := range result.Conflicts {
			bySeverity[rec.Severity]++
		}

		if jsonOutput {
			filename := fmt.Sprintf("conflicts_%d.json", time.Now().Unix())
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("failed to save JSON file: %w", err)
			}
			logg.Info("Detailed JSON report saved", zap.String("file", filename),
				zap.Int("conflicts", len(result.Conflicts)))
			fmt.Printf("\nDetailed JSON saved to: %s\n", filename)
		}

		// Always display metrics
		fmt.Println("\n=== Conflict Scan Metrics ===")
		fmt.Printf("Files Scanned: %d\n", result.Stats.FilesTotal)
		fmt.Printf("Files Parsed: %d\n", result.Stats.FilesParsed)
		fmt.Printf("Index Entries: %d\n", result.Stats.TotalEntries)
		fmt.Printf("Conflicts: %d\n", len(result.Conflicts))
		fmt.Printf("  Critical: %d\n", bySeverity[conflicts.SeverityCritical])
		fmt.Printf("  High: %d\n", bySeverity[conflicts.SeverityHigh])
		fmt.Printf("  Moderate: %d\n", bySeverity[conflicts.SeverityModerate])
		fmt.Printf("  Low: %d\n", bySeverity[conflicts.SeverityLow])
		fmt.Printf("Execution Time: %.2fs\n", result.Stats.ElapsedSeconds)

		if suggestOrder {
			suggestion := conflicts.SuggestLoadOrder(scanCfg.Root, result.Conflicts, time.Now())
			path, err := suggestion.Write()
			if err != nil {
				return fmt.Errorf("failed to write load order suggestion: %w", err)
			}
			fmt.Printf("\nLoad order suggestion saved to: %s (%d folders)\n", path, len(suggestion.Entries))
		}

		logg.Info("Conflict scan completed",
			zap.Int("files", result.Stats.FilesTotal),
			zap.Int("conflicts", len(result.Conflicts)),
			zap.Float64("elapsed_seconds", result.Stats.ElapsedSeconds),
		)

		return nil
	},
}

func init() {
	RootCmd.AddCommand(scanCmd)

	scanCmd.Flags().String("root", "", "Mods directory to scan (overrides SCAN_ROOT)")
	scanCmd.Flags().Bool("json", false, "Save detailed JSON report")
	scanCmd.Flags().Bool("fast", false, "Skip the tail-scanning fallback for damaged files")
	scanCmd.Flags().Bool("no-cache", false, "Ignore and do not update the parse cache")
	scanCmd.Flags().Bool("suggest-order", false, "Write load order advice into the mods directory")
}
