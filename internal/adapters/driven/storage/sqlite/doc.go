// Package sqlite provides the embedded, persistent implementation of the
// driven.VectorStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. One database file holds any number of
// named collections; each VectorStore handle addresses one of them.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Embeddings are stored as little-endian float32 blobs and metadata as a JSON
// object, so category filters run inside SQLite via json_extract.
//
// # Search
//
// Queries are exact: every candidate row is scored by cosine similarity.
//
// # Data Location
//
// By default, the database is stored at ~/.jobmatch/data/index.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode, and each upsert runs in one transaction.
package sqlite
