package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cratepress/internal/config"
	"cratepress/internal/ledger"
)

func newRetryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retry <item-id>",
		Short: "Queue a failed item for another publish attempt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				item, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("item %d not found", id)
				}

				if item.Caption == "" {
					return fmt.Errorf("item %d has no caption yet; run scan to catalog it first", id)
				}

				if err := item.RequestRetry(); err != nil {
					return err
				}
				if err := store.Update(cmd.Context(), item); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Item %d (%s) queued for publishing\n", item.ID, item.PairingKey)
				return nil
			})
		},
	}

	return cmd
}
