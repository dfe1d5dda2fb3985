// Package publisher posts cataloged records to the feed and records the
// outcome of every attempt in the ledger.
package publisher
