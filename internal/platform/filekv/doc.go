// Package filekv implements store.KVStore as a directory holding one JSON
// file per key. Writes go to a temporary file that is renamed over the
// previous one, so a crash mid-write never leaves a truncated value behind.
package filekv
