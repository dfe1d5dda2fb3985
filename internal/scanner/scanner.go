package scanner

import (
	"context"
	"log/slog"

	"cratepress/internal/catalog"
	"cratepress/internal/logging"
	"cratepress/internal/services"
)

// Storage lists and downloads record photos.
type Storage interface {
	List(ctx context.Context) ([]catalog.RawAsset, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	ViewURL(fileID string) string
}

// Captioner produces a sales caption from sleeve photos.
type Captioner interface {
	Generate(ctx context.Context, front []byte, back []byte) (string, error)
}

// Ledger records what the scanner has seen and done.
type Ledger interface {
	GetByPairingKey(ctx context.Context, key string) (*catalog.Item, error)
	Create(ctx context.Context, item *catalog.Item) (*catalog.Item, error)
	Update(ctx context.Context, item *catalog.Item) error
}

// Report summarizes a scan run.
type Report struct {
	Created int
	Updated int
	Skipped int
	Failed  int
}

// Scanner discovers photo pairs in storage and catalogs them.
type Scanner struct {
	storage   Storage
	captioner Captioner
	ledger    Ledger
	logger    *slog.Logger
}

// New constructs a scanner.
func New(storage Storage, captioner Captioner, ledger Ledger, logger *slog.Logger) *Scanner {
	return &Scanner{
		storage:   storage,
		captioner: captioner,
		ledger:    ledger,
		logger:    logging.WithComponent(logger, "scanner"),
	}
}

// Scan lists storage, pairs the photos, and catalogs up to limit pairs that
// still need work. A limit of zero or less means no limit. Per-pair failures
// are recorded on the item and counted; only listing failures and fatal
// collaborator errors abort the run.
func (s *Scanner) Scan(ctx context.Context, limit int) (Report, error) {
	var report Report

	assets, err := s.storage.List(ctx)
	if err != nil {
		return report, err
	}

	pairs := catalog.PairAssets(assets)
	s.logger.Info("scan started",
		logging.Int("assets", len(assets)),
		logging.Int("pairs", len(pairs)))

	processed := 0
	for _, pair := range pairs {
		if limit > 0 && processed >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		acted, err := s.processPair(ctx, pair, &report)
		if err != nil {
			return report, err
		}
		if acted {
			processed++
		}
	}

	s.logger.Info("scan complete",
		logging.Int("created", report.Created),
		logging.Int("updated", report.Updated),
		logging.Int("skipped", report.Skipped),
		logging.Int("failed", report.Failed))
	return report, nil
}

// processPair handles one pair. It reports whether the pair counted against
// the limit; already finished items do not. A returned error aborts the
// whole scan.
func (s *Scanner) processPair(ctx context.Context, pair catalog.Pair, report *Report) (bool, error) {
	logger := s.logger.With(logging.String(logging.FieldPairingKey, pair.Key))

	item, err := s.ledger.GetByPairingKey(ctx, pair.Key)
	if err != nil {
		return false, err
	}

	if item == nil {
		item = catalog.NewItem(pair)
		item.FrontURL = s.storage.ViewURL(item.FrontAssetID)
		if item.BackAssetID != "" {
			item.BackURL = s.storage.ViewURL(item.BackAssetID)
		}
		item, err = s.ledger.Create(ctx, item)
		if err != nil {
			return false, err
		}
		report.Created++
		logger.Info("pair discovered", logging.Int64(logging.FieldItemID, item.ID))
	}

	switch item.Status {
	case catalog.StatusCataloged, catalog.StatusPending, catalog.StatusPublished:
		report.Skipped++
		return false, nil
	}

	if err := s.catalogItem(ctx, item, logger); err != nil {
		if services.IsFatal(err) {
			return false, err
		}
		report.Failed++
		logger.Warn("cataloging failed",
			logging.Int64(logging.FieldItemID, item.ID),
			logging.Error(err))
		if markErr := item.MarkError(err.Error()); markErr == nil {
			if updateErr := s.ledger.Update(ctx, item); updateErr != nil {
				return false, updateErr
			}
		}
		return true, nil
	}

	if err := s.ledger.Update(ctx, item); err != nil {
		return false, err
	}
	report.Updated++
	logger.Info("pair cataloged", logging.Int64(logging.FieldItemID, item.ID))
	return true, nil
}

func (s *Scanner) catalogItem(ctx context.Context, item *catalog.Item, logger *slog.Logger) error {
	front, err := s.storage.Download(ctx, item.FrontAssetID)
	if err != nil {
		return err
	}

	var back []byte
	if item.BackAssetID != "" {
		back, err = s.storage.Download(ctx, item.BackAssetID)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("pair is missing its back photo", logging.Int64(logging.FieldItemID, item.ID))
	}

	caption, err := s.captioner.Generate(ctx, front, back)
	if err != nil {
		return err
	}

	return item.ApplyCaption(caption)
}
