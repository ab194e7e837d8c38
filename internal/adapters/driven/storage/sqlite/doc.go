// Package sqlite provides a SQLite-backed driven.VectorStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. Each chunk is one row; its embedding is a little-endian float32 BLOB.
// The seq column preserves insertion order, which ranking ties depend on.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Concurrency
//
// Save replaces every row inside one transaction, so readers never see a
// half-written snapshot. The store does not merge concurrent writers: the
// last Save wins.
package sqlite
