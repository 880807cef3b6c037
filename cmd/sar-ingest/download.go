// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sar-ingest/internal/acquire"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Acquire scenes from saved per-scene metadata files",
	Long: `Download re-runs acquisition from the per-scene metadata files a
previous search or run left in the download directory. Scenes whose
verified product already exists are skipped; scenes with an archive on
disk skip the transfer and go straight to extraction.

Use --check-auth to probe Earthdata credentials without downloading.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().String("metadata-dir", "", "directory holding metadata JSON files (default: the configured download directory)")
	downloadCmd.Flags().Int("max-scenes", 0, "acquire at most this many scenes (0 = all)")
	downloadCmd.Flags().Bool("check-auth", false, "verify Earthdata credentials and exit")
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	session, err := buildSession(cmd, cfg)
	if err != nil {
		return err
	}

	if checkAuth, _ := cmd.Flags().GetBool("check-auth"); checkAuth {
		if err := session.Verify(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "Earthdata credentials verified")
		return nil
	}

	metadataDir, _ := cmd.Flags().GetString("metadata-dir")
	if metadataDir == "" {
		metadataDir = cfg.ASF.DownloadDirectory
	}
	maxScenes, _ := cmd.Flags().GetInt("max-scenes")

	acquirer := acquire.NewAcquirer(cfg, session).WithLogger(logger)
	outcomes, err := acquirer.AcquireFromMetadata(cmd.Context(), metadataDir, maxScenes)
	if err != nil {
		return err
	}

	verified := 0
	for _, o := range outcomes {
		status := string(o.StageReached)
		if o.Verified() {
			verified++
			status = "verified"
			if o.Skipped {
				status = "verified (already on disk)"
			}
		} else if o.Error != "" {
			status += " (" + o.Error + ")"
		}
		fmt.Fprintf(os.Stdout, "  %s: %s\n", o.GranuleName, status)
	}
	fmt.Fprintf(os.Stdout, "%d/%d scenes verified\n", verified, len(outcomes))

	// Per-scene failures are recorded, not raised: partial success still
	// exits zero.
	return nil
}
