// Package sqlite implements store.KVStore on a single SQLite database file
// using the pure-Go modernc.org/sqlite driver. The schema is managed by
// goose migrations embedded in the binary.
package sqlite
