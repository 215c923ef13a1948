// Package store defines the durable key-value contract used to persist the
// flashcard collections. Each collection lives under its own key as a JSON
// document. Backends (sqlite, a directory of files, memory) implement KVStore
// so the card store stays independent of the storage technology.
package store
