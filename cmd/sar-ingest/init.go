// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sar-ingest/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a starter configuration and the data directory tree",
	Long: `Init writes a pipeline_config.json with a template area of interest
and creates the data directories. Edit the coordinates and add Sentinel
Hub credentials (or set SH_CLIENT_ID/SH_CLIENT_SECRET) before running the
pipeline. An existing config file is never overwritten.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultFileName
	}

	if err := config.WriteDefault(path); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Configuration written to %s\n", path)
	fmt.Fprintln(os.Stdout, "Edit area_of_interest.coordinates, then verify with: sar-ingest search")
	return nil
}
