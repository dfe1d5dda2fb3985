package catalog_test

import (
	"errors"
	"testing"
	"time"

	"cratepress/internal/catalog"
	"cratepress/internal/services"
)

func TestParseStatus(t *testing.T) {
	if status, ok := catalog.ParseStatus("  Cataloged "); !ok || status != catalog.StatusCataloged {
		t.Fatalf("unexpected parse result: %s, %v", status, ok)
	}
	if _, ok := catalog.ParseStatus("ripping"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
	if _, ok := catalog.ParseStatus(""); ok {
		t.Fatal("expected empty status to be rejected")
	}
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from    catalog.Status
		to      catalog.Status
		allowed bool
	}{
		{catalog.StatusDiscovered, catalog.StatusCataloged, true},
		{catalog.StatusDiscovered, catalog.StatusError, true},
		{catalog.StatusDiscovered, catalog.StatusPublished, false},
		{catalog.StatusCataloged, catalog.StatusPublished, true},
		{catalog.StatusCataloged, catalog.StatusError, true},
		{catalog.StatusPending, catalog.StatusPublished, true},
		{catalog.StatusPending, catalog.StatusError, true},
		{catalog.StatusError, catalog.StatusPending, true},
		{catalog.StatusError, catalog.StatusCataloged, true},
		{catalog.StatusPublished, catalog.StatusError, false},
		{catalog.StatusPublished, catalog.StatusPending, false},
	}
	for _, tc := range cases {
		if got := catalog.CanTransition(tc.from, tc.to); got != tc.allowed {
			t.Fatalf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestInvalidTransitionLeavesItemUnchanged(t *testing.T) {
	item := &catalog.Item{Status: catalog.StatusDiscovered}
	err := item.MarkPublished(time.Now())
	if err == nil {
		t.Fatal("expected publishing a discovered item to fail")
	}
	if !errors.Is(err, services.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if item.Status != catalog.StatusDiscovered || item.PublishedAt != nil {
		t.Fatalf("item changed by invalid transition: %+v", item)
	}
}

func TestApplyCaption(t *testing.T) {
	item := &catalog.Item{Status: catalog.StatusDiscovered, LastError: "old failure"}
	if err := item.ApplyCaption("  Rare pressing, plays clean.  "); err != nil {
		t.Fatalf("ApplyCaption failed: %v", err)
	}
	if item.Status != catalog.StatusCataloged {
		t.Fatalf("expected cataloged, got %s", item.Status)
	}
	if item.Caption != "Rare pressing, plays clean." {
		t.Fatalf("unexpected caption: %q", item.Caption)
	}
	if item.LastError != "" {
		t.Fatalf("expected last error cleared, got %q", item.LastError)
	}
}

func TestApplyCaptionRejectsEmpty(t *testing.T) {
	item := &catalog.Item{Status: catalog.StatusDiscovered}
	err := item.ApplyCaption("   ")
	if !errors.Is(err, services.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if item.Status != catalog.StatusDiscovered {
		t.Fatalf("status changed on rejected caption: %s", item.Status)
	}
}

func TestApplyCaptionRepairsErrorItem(t *testing.T) {
	item := &catalog.Item{Status: catalog.StatusError, LastError: "caption quota"}
	if err := item.ApplyCaption("Second attempt caption"); err != nil {
		t.Fatalf("ApplyCaption from error failed: %v", err)
	}
	if item.Status != catalog.StatusCataloged || item.LastError != "" {
		t.Fatalf("unexpected item after repair: %+v", item)
	}
}

func TestMarkError(t *testing.T) {
	item := &catalog.Item{Status: catalog.StatusCataloged, Caption: "caption"}
	if err := item.MarkError("publish failed"); err != nil {
		t.Fatalf("MarkError failed: %v", err)
	}
	if item.Status != catalog.StatusError || item.LastError != "publish failed" {
		t.Fatalf("unexpected item: %+v", item)
	}

	// A repeated failure refreshes the message without a transition.
	if err := item.MarkError("publish failed again"); err != nil {
		t.Fatalf("MarkError on error item failed: %v", err)
	}
	if item.LastError != "publish failed again" {
		t.Fatalf("expected refreshed message, got %q", item.LastError)
	}

	if err := item.MarkError(""); err != nil {
		t.Fatalf("MarkError with empty message failed: %v", err)
	}
	if item.LastError == "" {
		t.Fatal("expected non-empty last error for error status")
	}
}

func TestMarkErrorNeverRegressesPublished(t *testing.T) {
	published := time.Now().UTC()
	item := &catalog.Item{Status: catalog.StatusPublished, Caption: "caption", PublishedAt: &published}
	if err := item.MarkError("late failure"); err == nil {
		t.Fatal("expected error when regressing a published item")
	}
	if item.Status != catalog.StatusPublished {
		t.Fatalf("published item regressed to %s", item.Status)
	}
}

func TestMarkPublished(t *testing.T) {
	now := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	item := &catalog.Item{Status: catalog.StatusPending, Caption: "caption", LastError: "earlier failure"}
	if err := item.MarkPublished(now); err != nil {
		t.Fatalf("MarkPublished failed: %v", err)
	}
	if item.Status != catalog.StatusPublished {
		t.Fatalf("expected published, got %s", item.Status)
	}
	if item.PublishedAt == nil || !item.PublishedAt.Equal(now) {
		t.Fatalf("unexpected published timestamp: %v", item.PublishedAt)
	}
	if item.LastError != "" {
		t.Fatalf("expected last error cleared, got %q", item.LastError)
	}
}

func TestRequestRetry(t *testing.T) {
	item := &catalog.Item{Status: catalog.StatusError, LastError: "publish failed"}
	if err := item.RequestRetry(); err != nil {
		t.Fatalf("RequestRetry failed: %v", err)
	}
	if item.Status != catalog.StatusPending {
		t.Fatalf("expected pending, got %s", item.Status)
	}

	fresh := &catalog.Item{Status: catalog.StatusDiscovered}
	if err := fresh.RequestRetry(); err == nil {
		t.Fatal("expected retry of a discovered item to fail")
	}
}

func TestPublishable(t *testing.T) {
	price := 49.90
	cases := []struct {
		name   string
		item   catalog.Item
		expect bool
	}{
		{"cataloged with caption and price", catalog.Item{Status: catalog.StatusCataloged, Caption: "c", Price: &price}, true},
		{"pending with caption and price", catalog.Item{Status: catalog.StatusPending, Caption: "c", Price: &price}, true},
		{"missing price", catalog.Item{Status: catalog.StatusCataloged, Caption: "c"}, false},
		{"missing caption", catalog.Item{Status: catalog.StatusCataloged, Price: &price}, false},
		{"published", catalog.Item{Status: catalog.StatusPublished, Caption: "c", Price: &price}, false},
		{"discovered", catalog.Item{Status: catalog.StatusDiscovered, Caption: "c", Price: &price}, false},
	}
	for _, tc := range cases {
		if got := tc.item.Publishable(); got != tc.expect {
			t.Fatalf("%s: Publishable = %v, want %v", tc.name, got, tc.expect)
		}
	}
}

func TestNewItem(t *testing.T) {
	captured := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	back := catalog.RawAsset{ID: "back-1", CapturedAt: captured.Add(time.Minute)}
	pair := catalog.Pair{Key: "2026-08-20-001", Front: catalog.RawAsset{ID: "front-1", CapturedAt: captured}, Back: &back}

	item := catalog.NewItem(pair)
	if item.Status != catalog.StatusDiscovered {
		t.Fatalf("expected discovered, got %s", item.Status)
	}
	if item.FrontAssetID != "front-1" || item.BackAssetID != "back-1" {
		t.Fatalf("unexpected asset ids: %+v", item)
	}
	if item.Incomplete() {
		t.Fatal("expected complete item")
	}

	solo := catalog.NewItem(catalog.Pair{Key: "2026-08-20-002", Front: catalog.RawAsset{ID: "front-2"}})
	if !solo.Incomplete() {
		t.Fatal("expected incomplete item for missing back")
	}
}
