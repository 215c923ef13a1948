package cardstore

import (
	"log/slog"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/store"
)

// CreateFlashcard validates draft, appends a new card and returns it.
// An empty category becomes "general" and an empty difficulty "medium".
func (s *Store) CreateFlashcard(draft domain.FlashcardDraft) (domain.Flashcard, error) {
	card, err := domain.NewFlashcard(draft, s.now())
	if err != nil {
		s.logger.Debug("rejected flashcard draft", slog.String("error", err.Error()))
		return domain.Flashcard{}, err
	}

	s.mu.Lock()
	s.flashcards = append(s.flashcards, *card)
	foldersChanged := s.recomputeFolderCountsLocked()
	s.mu.Unlock()

	s.scheduleCards(foldersChanged)
	s.logger.Debug("created flashcard",
		slog.String("card_id", card.ID),
		slog.String("folder_id", card.FolderID))
	return cloneCard(*card), nil
}

// UpdateFlashcard merges patch into the card with id. It reports false,
// changing nothing, when no such card exists.
func (s *Store) UpdateFlashcard(id string, patch domain.FlashcardPatch) (bool, error) {
	if err := patch.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	idx := s.cardIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug("update of unknown flashcard ignored", slog.String("card_id", id))
		return false, nil
	}
	s.flashcards[idx] = s.flashcards[idx].Apply(patch)
	foldersChanged := s.recomputeFolderCountsLocked()
	s.mu.Unlock()

	s.scheduleCards(foldersChanged)
	return true, nil
}

// DeleteFlashcard removes the card with id. It reports false when no such
// card is visible. A card deleted while loading is never re-added by a
// later batch.
func (s *Store) DeleteFlashcard(id string) bool {
	s.mu.Lock()
	if s.loading {
		s.cascades.cards[id] = struct{}{}
	}
	idx := s.cardIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.flashcards = append(s.flashcards[:idx], s.flashcards[idx+1:]...)
	foldersChanged := s.recomputeFolderCountsLocked()
	s.mu.Unlock()

	s.scheduleCards(foldersChanged)
	s.logger.Debug("deleted flashcard", slog.String("card_id", id))
	return true
}

// MoveCardToFolder files the card under folderID, or unfiles it when
// folderID is empty.
func (s *Store) MoveCardToFolder(cardID, folderID string) bool {
	ok, _ := s.UpdateFlashcard(cardID, domain.FlashcardPatch{FolderID: &folderID})
	return ok
}

// Flashcards returns a copy of every visible card in insertion order.
func (s *Store) Flashcards() []domain.Flashcard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCards(s.flashcards, nil)
}

// Flashcard returns the card with id.
func (s *Store) Flashcard(id string) (domain.Flashcard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.cardIndexLocked(id)
	if idx < 0 {
		return domain.Flashcard{}, false
	}
	return cloneCard(s.flashcards[idx]), true
}

// FlashcardsInFolder returns the cards filed under folderID. An empty
// folderID selects the unfiled cards.
func (s *Store) FlashcardsInFolder(folderID string) []domain.Flashcard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCards(s.flashcards, func(c domain.Flashcard) bool {
		return c.FolderID == folderID
	})
}

// FlashcardsByCategory returns the cards labelled with category.
func (s *Store) FlashcardsByCategory(category string) []domain.Flashcard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCards(s.flashcards, func(c domain.Flashcard) bool {
		return c.Category == category
	})
}

func (s *Store) scheduleCards(foldersChanged bool) {
	if foldersChanged {
		s.schedule(store.KeyFlashcards, store.KeyFolders)
		return
	}
	s.schedule(store.KeyFlashcards)
}

func (s *Store) cardIndexLocked(id string) int {
	for i := range s.flashcards {
		if s.flashcards[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneCard(c domain.Flashcard) domain.Flashcard {
	if c.LastStudied != nil {
		t := *c.LastStudied
		c.LastStudied = &t
	}
	return c
}

func cloneCards(in []domain.Flashcard, keep func(domain.Flashcard) bool) []domain.Flashcard {
	out := make([]domain.Flashcard, 0, len(in))
	for _, c := range in {
		if keep == nil || keep(c) {
			out = append(out, cloneCard(c))
		}
	}
	return out
}
