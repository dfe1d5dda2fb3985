package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cratepress/internal/config"
	"cratepress/internal/ledger"
	"cratepress/internal/logging"
	"cratepress/internal/publisher"
	"cratepress/internal/services/instagram"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Post cataloged records to Instagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunLock(func() error {
				return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
					logger, err := ctx.ensureLogger()
					if err != nil {
						return err
					}
					logger = logger.With(logging.String(logging.FieldRunID, uuid.NewString()))

					// Dry runs never touch the feed, so credentials are
					// only required for a live publish.
					var feed publisher.Feed
					if !dryRun {
						feed, err = instagram.NewClient(instagram.Config{
							AccountID:      cfg.Instagram.AccountID,
							AccessToken:    cfg.Instagram.AccessToken,
							BaseURL:        cfg.Instagram.BaseURL,
							TimeoutSeconds: cfg.Instagram.TimeoutSeconds,
						})
						if err != nil {
							return err
						}
					}

					report, err := publisher.New(store, feed, logger).Publish(cmd.Context(), limit, dryRun)
					if err != nil {
						return err
					}

					fmt.Fprintf(cmd.OutOrStdout(), "Publish finished: %d published, %d simulated, %d failed\n",
						report.Published, report.Simulated, report.Failed)
					return nil
				})
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of items to publish (0 means all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be published without posting")

	return cmd
}
