// Package store persists basis records and families in an embedded SQLite
// database and serves as the family registry.
//
// The store treats records as an append-only object set addressed by UUID
// and families as uniquely-labelled groups of memberships. CreateFamily is
// a single transaction: either the family row, all record upserts and all
// memberships land together, or nothing is visible to readers.
//
// Concurrency model: single writer (enforced by the connection pool limit),
// WAL mode for concurrent readers. Two simultaneous imports targeting the
// same label are resolved by the UNIQUE(label) constraint, surfaced as an
// ALREADY_EXISTS error.
package store
