// Package ledger persists catalog items in SQLite. The database is the
// durable record of every photo pair the pipeline has seen and what happened
// to it, so scans and publishes can resume safely after interruption.
package ledger
