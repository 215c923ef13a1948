package store

import "context"

// Storage keys. Each is written exclusively by the card store.
const (
	KeyFlashcards = "flashcards"
	KeyFolders    = "folders"
	KeyCategories = "categories"
	KeySessions   = "study-sessions"
)

// Keys lists every key the card store owns, in load order.
func Keys() []string {
	return []string{KeyFolders, KeyCategories, KeySessions, KeyFlashcards}
}

// KVStore is a durable mapping from key to an opaque byte value.
// Version: 1.0
type KVStore interface {
	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if nothing has been stored yet.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key. Implementations must make the
	// replacement atomic: a reader sees either the old or the new value.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases any resources held by the store.
	Close() error
}
