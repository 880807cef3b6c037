// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sar-ingest/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs and scene outcomes from the ledger",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of runs to show")
	historyCmd.Flags().Bool("outcomes", false, "show per-scene outcomes instead of runs")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := ledger.NewStore(cfg.DataDirectory)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if showOutcomes, _ := cmd.Flags().GetBool("outcomes"); showOutcomes {
		outcomes, err := store.RecentOutcomes(cmd.Context(), limit)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "RUN\tGRANULE\tSTAGE\tERROR")
		for _, o := range outcomes {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", o.RunID, o.Granule, o.Stage, o.Error)
		}
		return nil
	}

	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "ID\tEXECUTED\tDAYS\tASF FOUND\tSH FOUND\tSELECTED\tFILES\tERRORS")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.ID, r.ExecutedAt, r.DaysBack, r.ASFFound, r.SHFound,
			r.ASFSelected+r.SHSelected, r.TotalFiles, r.SearchErrors)
	}
	return nil
}
