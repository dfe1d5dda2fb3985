package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cratepress/internal/catalog"
	"cratepress/internal/config"
	"cratepress/internal/ledger"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog totals by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(stats.ByStatus)+1)
				for _, status := range catalog.AllStatuses() {
					count, ok := stats.ByStatus[status]
					if !ok {
						continue
					}
					rows = append(rows, []string{string(status), strconv.Itoa(count)})
				}
				rows = append(rows, []string{"total", strconv.Itoa(stats.Total)})

				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Status", "Count"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))

				if stats.Total > 0 {
					rate := float64(stats.ByStatus[catalog.StatusPublished]) / float64(stats.Total) * 100
					fmt.Fprintf(cmd.OutOrStdout(), "Publication rate: %.1f%%\n", rate)
				}
				return nil
			})
		},
	}

	return cmd
}
