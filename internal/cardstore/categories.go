package cardstore

import (
	"errors"
	"log/slog"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/store"
)

// ErrFallbackCategory is returned when deleting the fallback category.
var ErrFallbackCategory = errors.New("the fallback category cannot be deleted")

// CreateCategory adds name to the category set. Adding an existing name
// is a no-op. Names are trimmed and compared case-sensitively.
func (s *Store) CreateCategory(name string) (string, error) {
	name = domain.NormalizeCategory(name)
	if name == "" {
		return "", domain.NewValidationError("category", "cannot be empty", domain.ErrEmptyContent)
	}

	s.mu.Lock()
	if s.loading {
		// Cards streamed in from now on keep this label.
		delete(s.cascades.categories, name)
	}
	if s.categoryIndexLocked(name) >= 0 {
		s.mu.Unlock()
		return name, nil
	}
	s.categories = append(s.categories, name)
	s.mu.Unlock()

	s.schedule(store.KeyCategories)
	return name, nil
}

// DeleteCategory reassigns every card labelled name to the fallback
// category and removes name from the set, in one critical section. It
// reports whether anything changed.
func (s *Store) DeleteCategory(name string) (bool, error) {
	name = domain.NormalizeCategory(name)
	if name == domain.FallbackCategory {
		return false, domain.NewValidationError("category", "is the fallback", ErrFallbackCategory)
	}
	if name == "" {
		return false, nil
	}

	s.mu.Lock()
	if s.loading {
		s.cascades.categories[name] = struct{}{}
	}

	reassigned := 0
	for i := range s.flashcards {
		if s.flashcards[i].Category == name {
			s.flashcards[i].Category = domain.FallbackCategory
			reassigned++
		}
	}

	idx := s.categoryIndexLocked(name)
	if idx >= 0 {
		s.categories = append(s.categories[:idx], s.categories[idx+1:]...)
	}
	s.mu.Unlock()

	var keys []string
	if reassigned > 0 {
		keys = append(keys, store.KeyFlashcards)
	}
	if idx >= 0 {
		keys = append(keys, store.KeyCategories)
	}
	s.schedule(keys...)

	if len(keys) > 0 {
		s.logger.Debug("deleted category",
			slog.String("category", name),
			slog.Int("reassigned_cards", reassigned))
	}
	return len(keys) > 0, nil
}

// Categories returns the category labels in insertion order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.categories...)
}

func (s *Store) categoryIndexLocked(name string) int {
	for i, c := range s.categories {
		if c == name {
			return i
		}
	}
	return -1
}
