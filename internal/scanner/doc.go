// Package scanner drives the catalog side of the pipeline: it pairs storage
// photos into records, creates ledger items, and generates captions.
package scanner
