package ledger

import (
	"database/sql"
	"errors"
	"time"

	"cratepress/internal/catalog"
)

const itemColumns = "id, pairing_key, front_asset_id, back_asset_id, front_url, back_url, status, caption, price, publish_attempts, last_error, published_at, created_at, updated_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*catalog.Item, error) {
	var (
		id              int64
		pairingKey      string
		frontAssetID    string
		backAssetID     sql.NullString
		frontURL        sql.NullString
		backURL         sql.NullString
		statusStr       string
		caption         sql.NullString
		price           sql.NullFloat64
		publishAttempts int64
		lastError       sql.NullString
		publishedRaw    sql.NullString
		createdRaw      sql.NullString
		updatedRaw      sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&pairingKey,
		&frontAssetID,
		&backAssetID,
		&frontURL,
		&backURL,
		&statusStr,
		&caption,
		&price,
		&publishAttempts,
		&lastError,
		&publishedRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &catalog.Item{
		ID:              id,
		PairingKey:      pairingKey,
		FrontAssetID:    frontAssetID,
		BackAssetID:     backAssetID.String,
		FrontURL:        frontURL.String,
		BackURL:         backURL.String,
		Status:          catalog.Status(statusStr),
		Caption:         caption.String,
		PublishAttempts: int(publishAttempts),
		LastError:       lastError.String,
	}
	if price.Valid {
		v := price.Float64
		item.Price = &v
	}
	if publishedRaw.Valid {
		if published, err := parseTimeString(publishedRaw.String); err == nil {
			item.PublishedAt = &published
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
