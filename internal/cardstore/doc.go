// Package cardstore holds the authoritative in-memory collections of
// flashcards, folders, categories and past study sessions, and mirrors
// them to a durable key-value store.
//
// Mutations are applied synchronously under a mutex and persisted later
// by a debounced writer: every key has at most one pending write, and
// the value written is the state at write time. Flashcards are loaded
// progressively in batches so that a large collection does not block
// startup.
package cardstore
