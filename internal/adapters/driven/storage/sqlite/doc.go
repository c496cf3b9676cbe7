// Package sqlite provides a SQLite-backed implementation of driven.IndexStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Layout
//
// Each index directory holds one database file (index.db) and a lock file
// (.lock). The database has two tables:
//
//   - index_meta: a single row describing the build and its completion flag
//   - index_entries: one row per chunk with its embedding as a little-endian
//     float32 blob
//
// An index is visible to Exists and Load only once the meta row is marked
// complete, so an interrupted build never loads.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Locking
//
// Builders of the same directory are serialised with an advisory file lock
// (github.com/gofrs/flock), which also excludes other processes.
package sqlite
