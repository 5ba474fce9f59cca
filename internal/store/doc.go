// Package store provides SQLite-backed durable storage for Trailhead
// databases. Each named database is one SQLite file holding the four
// snapshot collections (events, tags, step templates, step set templates),
// an images side collection for original image blobs, and a meta table for
// markers such as the first-run seed flag.
//
// Collections are key/value: records are stored as JSON bodies keyed by id,
// with an explicit position column where collection order is part of the
// data (events, tags). Timestamps round-trip through RFC 3339 inside the
// JSON bodies, so reads always revive live time.Time values.
//
// ReplaceSnapshot is the one compound write: it clears and rewrites all four
// collections plus any image puts/deletes in a single transaction. Partial
// replacement is never observable. No retries happen at this layer — retry
// policy belongs to the sync engine above.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// Schema changes are versioned through PRAGMA user_version and applied
// idempotently on Open.
package store
