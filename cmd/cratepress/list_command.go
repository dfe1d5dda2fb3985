package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cratepress/internal/catalog"
	"cratepress/internal/config"
	"cratepress/internal/ledger"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var statuses []catalog.Status
			if statusFlag != "" {
				status, ok := catalog.ParseStatus(statusFlag)
				if !ok {
					return fmt.Errorf("unknown status %q (valid: %v)", statusFlag, catalog.AllStatuses())
				}
				statuses = append(statuses, status)
			}

			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				items, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if limit > 0 && len(items) > limit {
					items = items[:limit]
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No items found.")
					return nil
				}

				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						strconv.FormatInt(item.ID, 10),
						item.PairingKey,
						string(item.Status),
						captionSummary(item),
						formatPrice(item.Price),
						formatOptionalTimestamp(item.PublishedAt),
					})
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Pairing Key", "Status", "Caption", "Price", "Published"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of items to show (0 means all)")

	return cmd
}
