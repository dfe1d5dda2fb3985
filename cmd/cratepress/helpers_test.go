package main

import (
	"testing"
	"time"

	"cratepress/internal/catalog"
)

func TestFormatPrice(t *testing.T) {
	if got := formatPrice(nil); got != "-" {
		t.Fatalf("formatPrice(nil) = %q", got)
	}
	price := 1499.9
	if got := formatPrice(&price); got != "R$ 1.499,90" {
		t.Fatalf("formatPrice = %q", got)
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := formatTimestamp(time.Time{}); got != "-" {
		t.Fatalf("zero time = %q", got)
	}
	value := time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC)
	if got := formatTimestamp(value); got != "2026-08-30 09:15" {
		t.Fatalf("formatTimestamp = %q", got)
	}
	if got := formatOptionalTimestamp(nil); got != "-" {
		t.Fatalf("nil pointer = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Fatalf("truncate long = %q", got)
	}
	if got := truncate("ação e reação", 5); got != "ação…" {
		t.Fatalf("truncate utf-8 = %q", got)
	}
}

func TestCaptionSummary(t *testing.T) {
	empty := &catalog.Item{}
	if got := captionSummary(empty); got != "-" {
		t.Fatalf("empty caption = %q", got)
	}
	multi := &catalog.Item{Caption: "first line\nsecond line"}
	if got := captionSummary(multi); got != "first line" {
		t.Fatalf("multi-line caption = %q", got)
	}
}
