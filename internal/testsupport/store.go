package testsupport

import (
	"context"
	"testing"
	"time"

	"cratepress/internal/catalog"
	"cratepress/internal/config"
	"cratepress/internal/ledger"
)

// MustOpenStore opens a ledger.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewItem creates a discovered catalog item for tests using the provided
// store.
func NewItem(t testing.TB, store *ledger.Store, pairingKey string) *catalog.Item {
	t.Helper()

	item := catalog.NewItem(catalog.Pair{
		Key:   pairingKey,
		Front: catalog.RawAsset{ID: pairingKey + "-front", Name: "front.jpg", Role: catalog.RoleFront, CapturedAt: time.Now().UTC()},
		Back:  &catalog.RawAsset{ID: pairingKey + "-back", Name: "back.jpg", Role: catalog.RoleBack, CapturedAt: time.Now().UTC()},
	})
	stored, err := store.Create(context.Background(), item)
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return stored
}

// NewPublishableItem creates an item carrying a caption and price, ready for
// publishing.
func NewPublishableItem(t testing.TB, store *ledger.Store, pairingKey, caption string, price float64) *catalog.Item {
	t.Helper()

	item := NewItem(t, store, pairingKey)
	if err := item.ApplyCaption(caption); err != nil {
		t.Fatalf("ApplyCaption: %v", err)
	}
	item.Price = &price
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatalf("store.Update: %v", err)
	}
	return item
}
