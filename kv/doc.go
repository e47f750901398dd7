// Package kv provides the key/value stores a finance.Store is persisted to:
// an in-memory map, a directory with one JSON file per key, and a SQLite
// table.
package kv
