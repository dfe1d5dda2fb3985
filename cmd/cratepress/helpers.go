package main

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"cratepress/internal/catalog"
)

var pricePrinter = message.NewPrinter(language.BrazilianPortuguese)

func formatPrice(price *float64) string {
	if price == nil {
		return "-"
	}
	return pricePrinter.Sprintf("R$ %.2f", *price)
}

func formatTimestamp(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02 15:04")
}

func formatOptionalTimestamp(value *time.Time) string {
	if value == nil {
		return "-"
	}
	return formatTimestamp(*value)
}

func truncate(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}

func captionSummary(item *catalog.Item) string {
	if item.Caption == "" {
		return "-"
	}
	firstLine := item.Caption
	for i, r := range firstLine {
		if r == '\n' {
			firstLine = firstLine[:i]
			break
		}
	}
	return truncate(firstLine, 40)
}
