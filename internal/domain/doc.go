// Package domain contains the core entities of the flashcard system:
// flashcards, folders, categories and study sessions. It holds the
// validation and merge rules for those entities and is independent of any
// storage or delivery mechanism.
package domain
