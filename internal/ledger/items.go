package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cratepress/internal/catalog"
)

// Create inserts a new catalog item and returns the stored row. The pairing
// key must be unique; inserting a duplicate fails.
func (s *Store) Create(ctx context.Context, item *catalog.Item) (*catalog.Item, error) {
	if item == nil {
		return nil, errors.New("item is nil")
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO catalog_items (
            pairing_key, front_asset_id, back_asset_id, front_url, back_url,
            status, caption, price, publish_attempts, last_error, published_at,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.PairingKey,
		item.FrontAssetID,
		nullableString(item.BackAssetID),
		nullableString(item.FrontURL),
		nullableString(item.BackURL),
		item.Status,
		nullableString(item.Caption),
		nullableFloat(item.Price),
		item.PublishAttempts,
		nullableString(item.LastError),
		nullableTime(item.PublishedAt),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a catalog item by identifier. A missing row yields
// (nil, nil).
func (s *Store) GetByID(ctx context.Context, id int64) (*catalog.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM catalog_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByPairingKey returns the item matching a pairing key, or (nil, nil)
// when no such item exists.
func (s *Store) GetByPairingKey(ctx context.Context, key string) (*catalog.Item, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM catalog_items WHERE pairing_key = ? LIMIT 1`,
		key,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get by pairing key: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing catalog item.
func (s *Store) Update(ctx context.Context, item *catalog.Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE catalog_items
         SET front_asset_id = ?, back_asset_id = ?, front_url = ?, back_url = ?,
             status = ?, caption = ?, price = ?, publish_attempts = ?,
             last_error = ?, published_at = ?, updated_at = ?
         WHERE id = ?`,
		item.FrontAssetID,
		nullableString(item.BackAssetID),
		nullableString(item.FrontURL),
		nullableString(item.BackURL),
		item.Status,
		nullableString(item.Caption),
		nullableFloat(item.Price),
		item.PublishAttempts,
		nullableString(item.LastError),
		nullableTime(item.PublishedAt),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// List returns items ordered by id, optionally filtered to the given
// statuses.
func (s *Store) List(ctx context.Context, statuses ...catalog.Status) ([]*catalog.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM catalog_items`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// Publishable returns items eligible for publishing in id order: status
// cataloged or pending, with a caption and a price set. A limit of zero or
// less means no limit.
func (s *Store) Publishable(ctx context.Context, limit int) ([]*catalog.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM catalog_items
        WHERE status IN (?, ?)
          AND caption IS NOT NULL AND caption != ''
          AND price IS NOT NULL
        ORDER BY id`
	args := []any{catalog.StatusCataloged, catalog.StatusPending}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list publishable items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// Stats summarizes the catalog by status.
type Stats struct {
	Total    int
	ByStatus map[catalog.Status]int
}

// Stats returns item counts grouped by status.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByStatus: make(map[catalog.Status]int)}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM catalog_items GROUP BY status`)
	if err != nil {
		return stats, fmt.Errorf("count items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			statusStr string
			count     int
		)
		if err := rows.Scan(&statusStr, &count); err != nil {
			return stats, fmt.Errorf("scan count: %w", err)
		}
		stats.ByStatus[catalog.Status(statusStr)] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterate counts: %w", err)
	}
	return stats, nil
}

func collectItems(rows *sql.Rows) ([]*catalog.Item, error) {
	var items []*catalog.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}
