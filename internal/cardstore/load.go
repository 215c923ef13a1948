package cardstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/store"
)

// streamFlashcards decodes the stored flashcard array element by element
// and appends it to the visible collection in batches, yielding the
// processor between batches so the store stays responsive. It always
// marks loading as finished. Corrupt data yields the defaults; a load cut
// short by cancellation or a broken record leaves the flashcards key
// unwritable so the stored collection survives.
func (s *Store) streamFlashcards(ctx context.Context, raw []byte) {
	start := time.Now()
	appended, streamed := 0, 0
	complete := true
	defer func() {
		s.finishLoad(complete)
		s.logger.Info("flashcards loaded",
			slog.Int("count", appended),
			slog.Duration("duration", time.Since(start)))
	}()

	if len(raw) == 0 {
		return
	}
	if !json.Valid(raw) {
		s.logger.Error("corrupt stored value, using defaults",
			slog.String("key", store.KeyFlashcards),
			slog.String("error", store.ErrCorrupt.Error()))
		return
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		s.logger.Error("failed to read flashcard array", slog.String("error", err.Error()))
		return
	}
	if tok == nil {
		// Stored as JSON null.
		return
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		s.logger.Error("corrupt stored value, using defaults",
			slog.String("key", store.KeyFlashcards),
			slog.String("error", errors.Join(store.ErrCorrupt, errors.New("expected a JSON array")).Error()))
		return
	}

	batch := make([]domain.Flashcard, 0, s.batchSize)
	for dec.More() {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("flashcard load cancelled", slog.String("error", err.Error()))
			complete = false
			return
		}

		var card domain.Flashcard
		if err := dec.Decode(&card); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				s.logger.Warn("skipping malformed flashcard record", slog.String("error", err.Error()))
				continue
			}
			s.logger.Error("failed to decode flashcard record", slog.String("error", err.Error()))
			complete = false
			return
		}
		if card.ID == "" {
			s.logger.Warn("skipping flashcard record without id")
			continue
		}

		batch = append(batch, card)
		streamed++
		if len(batch) == s.batchSize {
			appended += s.appendBatch(batch)
			batch = batch[:0]
			s.batchDone(streamed)
			runtime.Gosched()
		}
	}
	if len(batch) > 0 {
		appended += s.appendBatch(batch)
		s.batchDone(streamed)
	}
}

func (s *Store) batchDone(streamed int) {
	if s.afterBatch != nil {
		s.afterBatch(streamed)
	}
}

// appendBatch adds loaded cards to the visible collection, applying any
// deletions that happened while they were still in flight. It returns
// how many cards were appended.
func (s *Store) appendBatch(batch []domain.Flashcard) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]struct{}, len(s.flashcards))
	for _, c := range s.flashcards {
		known[c.ID] = struct{}{}
	}

	n := 0
	for _, card := range batch {
		if _, deleted := s.cascades.cards[card.ID]; deleted {
			continue
		}
		if _, dup := known[card.ID]; dup {
			s.logger.Warn("skipping duplicate flashcard id", slog.String("card_id", card.ID))
			continue
		}
		if _, gone := s.cascades.folders[card.FolderID]; gone && card.FolderID != "" {
			card.FolderID = ""
		}
		if _, gone := s.cascades.categories[card.Category]; gone {
			card.Category = domain.FallbackCategory
		}
		if card.Category == "" {
			card.Category = domain.FallbackCategory
		}
		if !card.Difficulty.Valid() {
			card.Difficulty = domain.DifficultyMedium
		}
		known[card.ID] = struct{}{}
		s.flashcards = append(s.flashcards, card)
		n++
	}

	if s.recomputeFolderCountsLocked() {
		s.schedule(store.KeyFolders)
	}
	return n
}

// finishLoad ends the loading phase. An incomplete load marks the
// flashcards key so that the partial collection is never persisted.
func (s *Store) finishLoad(complete bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !complete {
		s.unloaded[store.KeyFlashcards] = struct{}{}
		s.logger.Error("flashcard load incomplete, card changes will not be persisted",
			slog.Int("visible", len(s.flashcards)))
	}

	s.loading = false
	s.cascades = nil
	if s.recomputeFolderCountsLocked() {
		s.schedule(store.KeyFolders)
	}
	close(s.ready)
}
