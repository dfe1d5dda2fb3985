package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cratepress/internal/config"
	"cratepress/internal/ledger"
	"cratepress/internal/logging"
	"cratepress/internal/scanner"
	"cratepress/internal/services/drive"
	"cratepress/internal/services/gemini"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Discover photo pairs in Drive and catalog them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunLock(func() error {
				return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
					logger, err := ctx.ensureLogger()
					if err != nil {
						return err
					}
					logger = logger.With(logging.String(logging.FieldRunID, uuid.NewString()))

					storage, err := drive.New(cmd.Context(), cfg, logger)
					if err != nil {
						return err
					}
					captioner, err := gemini.New(cmd.Context(), cfg, logger)
					if err != nil {
						return err
					}
					defer captioner.Close()

					report, err := scanner.New(storage, captioner, store, logger).Scan(cmd.Context(), limit)
					if err != nil {
						return err
					}

					fmt.Fprintf(cmd.OutOrStdout(), "Scan finished: %d created, %d updated, %d skipped, %d failed\n",
						report.Created, report.Updated, report.Skipped, report.Failed)
					return nil
				})
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of pairs to process (0 means all)")

	return cmd
}
