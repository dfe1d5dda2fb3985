package publisher

import (
	"context"
	"log/slog"
	"time"

	"cratepress/internal/catalog"
	"cratepress/internal/logging"
	"cratepress/internal/services"
)

// Ledger provides the items eligible for publishing and records outcomes.
type Ledger interface {
	Publishable(ctx context.Context, limit int) ([]*catalog.Item, error)
	Update(ctx context.Context, item *catalog.Item) error
}

// Feed accepts finished posts.
type Feed interface {
	Publish(ctx context.Context, imageURLs []string, caption string) (string, error)
}

// Report summarizes a publish run.
type Report struct {
	Published int
	Simulated int
	Failed    int
}

// Publisher pushes cataloged items to the feed.
type Publisher struct {
	ledger Ledger
	feed   Feed
	logger *slog.Logger
	clock  func() time.Time
}

// Option customizes the publisher.
type Option func(*Publisher)

// WithClock overrides the time source (useful for tests).
func WithClock(clock func() time.Time) Option {
	return func(p *Publisher) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// New constructs a publisher.
func New(ledger Ledger, feed Feed, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{
		ledger: ledger,
		feed:   feed,
		logger: logging.WithComponent(logger, "publisher"),
		clock:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish posts up to limit eligible items in id order. A limit of zero or
// less means no limit. In dry-run mode nothing is written and no feed calls
// happen; each candidate is only logged. Per-item failures are recorded and
// counted, but an authentication failure aborts the run since every
// remaining item would fail the same way.
func (p *Publisher) Publish(ctx context.Context, limit int, dryRun bool) (Report, error) {
	var report Report

	items, err := p.ledger.Publishable(ctx, limit)
	if err != nil {
		return report, err
	}
	p.logger.Info("publish started",
		logging.Int("candidates", len(items)),
		logging.Bool("dry_run", dryRun))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		logger := p.logger.With(
			logging.Int64(logging.FieldItemID, item.ID),
			logging.String(logging.FieldPairingKey, item.PairingKey))

		if dryRun {
			report.Simulated++
			logger.Info("would publish", logging.Int("post_length", len(BuildPost(item))))
			continue
		}

		mediaID, err := p.feed.Publish(ctx, item.ImageURLs(), BuildPost(item))
		if err != nil {
			if services.IsFatal(err) {
				return report, err
			}
			report.Failed++
			logger.Warn("publish failed", logging.Error(err))
			item.PublishAttempts++
			if markErr := item.MarkError(err.Error()); markErr == nil {
				if updateErr := p.ledger.Update(ctx, item); updateErr != nil {
					return report, updateErr
				}
			}
			continue
		}

		if err := item.MarkPublished(p.clock()); err != nil {
			return report, err
		}
		if err := p.ledger.Update(ctx, item); err != nil {
			return report, err
		}
		report.Published++
		logger.Info("published", logging.String("media_id", mediaID))
	}

	p.logger.Info("publish complete",
		logging.Int("published", report.Published),
		logging.Int("simulated", report.Simulated),
		logging.Int("failed", report.Failed))
	return report, nil
}
