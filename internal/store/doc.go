// Package store keeps a SQLite-backed archive of project snapshots.
//
// The editor autosaves through SaveSnapshot; each snapshot is the full
// serialized document plus a content hash, so identical saves deduplicate
// instead of piling up. Snapshots are append-only and ordered by rowid,
// which makes "restore the latest" and "list history" cheap.
//
// Database configuration follows the usual SQLite service setup:
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
//
// Snapshot hashes use RFC 8785 canonical bytes and SHA-256 with domain
// separation, computed in internal/value.
package store
