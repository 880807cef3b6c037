// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sar-ingest/internal/geometry"
	"github.com/pdiddy/sar-ingest/internal/search"
	"github.com/pdiddy/sar-ingest/internal/selector"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search providers and show what would be acquired",
	Long: `Search queries both providers over the configured area and prints
the normalized scenes plus the two-anchor selection, without downloading
anything. Use --report to save the full result set to a YAML file.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("days-back", 0, "lookback window in days (default from config)")
	searchCmd.Flags().String("report", "", "write a YAML search report to this path")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	secretsDir, _ := cmd.Flags().GetString("secrets-dir")
	if err := fillSentinelHubCredentials(&cfg, secretsDir); err != nil {
		return err
	}

	daysBack, _ := cmd.Flags().GetInt("days-back")
	if daysBack <= 0 {
		daysBack = cfg.TemporalRange.DaysBack
	}

	now := time.Now()
	query := search.Query{
		Area:        geometry.Polygon(cfg.AreaOfInterest.Coordinates),
		Start:       now.AddDate(0, 0, -daysBack),
		End:         now,
		Platform:    cfg.ASF.Platform,
		ProductType: cfg.ASF.ProductType,
		MaxResults:  cfg.ASF.MaxResults,
	}

	output := search.RunAll(cmd.Context(), query, buildBackends(cfg, logger), logger)

	var selected []string
	sel, err := selector.Select(output.Records, daysBack, now)
	switch {
	case err == nil:
		selected = sel.GranuleNames()
	case errors.Is(err, selector.ErrNoValidScenes):
		// Nothing selectable; still print what was found.
	default:
		return err
	}

	fmt.Fprintf(os.Stdout, "Found %d scenes:\n", len(output.Records))
	for _, r := range output.Records {
		ts := "unparsed time"
		if r.TimeValid {
			ts = r.AcquisitionTime.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(os.Stdout, "  %-60s %s  %s  %.0f MB\n", r.GranuleName, ts, r.Source, r.SizeMB)
	}
	for _, e := range output.Errors {
		fmt.Fprintf(os.Stdout, "  search error: %s\n", e)
	}
	fmt.Fprintf(os.Stdout, "Selected: %v\n", selected)

	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		if err := search.WriteReport(reportPath, query, output, selected); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Report written to %s\n", reportPath)
	}
	return nil
}
