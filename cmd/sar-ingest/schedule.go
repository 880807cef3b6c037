// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sar-ingest/internal/ledger"
	"github.com/pdiddy/sar-ingest/internal/scheduler"
)

const defaultInterval = 24 * time.Hour

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a fixed interval",
	Long: `Schedule runs the pipeline repeatedly until interrupted. A failed
run is logged and followed by a one-hour cooldown instead of the regular
interval; the loop itself never stops on a run failure.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().Duration("interval", defaultInterval, "time between runs")
	scheduleCmd.Flags().Int("days-back", 0, "lookback window in days (default from config)")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
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

	session, err := buildSession(cmd, cfg)
	if err != nil {
		return err
	}

	store, err := ledger.NewStore(cfg.DataDirectory)
	if err != nil {
		return err
	}
	defer store.Close()

	interval, _ := cmd.Flags().GetDuration("interval")
	daysBack, _ := cmd.Flags().GetInt("days-back")
	p := newPipeline(cfg, session, store, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = scheduler.New(interval).WithLogger(logger).Run(ctx, func(ctx context.Context) error {
		_, err := p.RunOnce(ctx, daysBack)
		return err
	})
	if ctx.Err() != nil {
		logger.Info("scheduler stopped")
		return nil
	}
	return err
}
