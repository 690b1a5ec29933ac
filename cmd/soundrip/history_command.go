package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"soundrip/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := journal.Open(cfg.Paths.DataDir)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No conversions recorded yet")
				return nil
			}

			rows := make([]table.Row, 0, len(entries))
			for _, e := range entries {
				name := e.InputName
				if name == "" {
					name = "(unnamed)"
				}
				rows = append(rows, table.Row{
					e.CreatedAt.Local().Format(time.RFC3339),
					name,
					humanize.IBytes(uint64(max64(e.InputBytes, 0))),
					e.Outcome,
					e.Duration.Round(time.Millisecond).String(),
				})
			}
			writeTable(cmd.OutOrStdout(), table.Row{"When", "Input", "Size", "Outcome", "Duration"}, rows, 3, 5)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	return cmd
}

func max64(v, floor int64) int64 {
	if v < floor {
		return floor
	}
	return v
}
