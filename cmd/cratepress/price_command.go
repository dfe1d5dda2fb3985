package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cratepress/internal/catalog"
	"cratepress/internal/config"
	"cratepress/internal/ledger"
)

func newPriceCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price <item-id> <amount>",
		Short: "Set the sale price of a catalog item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil || price <= 0 {
				return fmt.Errorf("invalid price %q: must be a positive number", args[1])
			}

			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				item, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("item %d not found", id)
				}
				if item.Status == catalog.StatusPublished {
					return fmt.Errorf("item %d is already published; its price can no longer change", id)
				}

				item.Price = &price
				if err := store.Update(cmd.Context(), item); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Item %d (%s) priced at %s\n",
					item.ID, item.PairingKey, formatPrice(item.Price))
				return nil
			})
		},
	}

	return cmd
}
