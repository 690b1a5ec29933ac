package main

import (
	"errors"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"soundrip/internal/deps"
)

var errMissingDependencies = errors.New("required dependencies are missing")

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of external dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := []deps.Status{deps.CheckFFmpeg(cfg.Audio.FFmpegBinary)}

			rows := make([]table.Row, 0, len(statuses))
			allAvailable := true
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
					if !status.Optional {
						allAvailable = false
					}
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Command
				}
				rows = append(rows, table.Row{status.Name, state, detail})
			}
			writeTable(cmd.OutOrStdout(), table.Row{"Dependency", "Status", "Detail"}, rows)

			if !allAvailable {
				return errMissingDependencies
			}
			return nil
		},
	}
}
