package cardstore

import (
	"testing"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFlashcard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		draft   domain.FlashcardDraft
		wantErr error
		check   func(t *testing.T, c domain.Flashcard)
	}{
		{
			name:  "defaults",
			draft: domain.FlashcardDraft{Front: "  2+2  ", Back: "4"},
			check: func(t *testing.T, c domain.Flashcard) {
				assert.NotEmpty(t, c.ID)
				assert.Equal(t, "2+2", c.Front)
				assert.Equal(t, domain.FallbackCategory, c.Category)
				assert.Equal(t, domain.DifficultyMedium, c.Difficulty)
				assert.Equal(t, fixedNow, c.CreatedAt)
				assert.Nil(t, c.LastStudied)
				assert.Zero(t, c.CorrectCount)
				assert.Zero(t, c.IncorrectCount)
			},
		},
		{
			name: "latex card in folder",
			draft: domain.FlashcardDraft{
				Front: `\int_0^1 x\,dx`, Back: `\frac{1}{2}`, Category: "math",
				Difficulty: domain.DifficultyHard, IsLatex: true, FolderID: "f1",
			},
			check: func(t *testing.T, c domain.Flashcard) {
				assert.True(t, c.IsLatex)
				assert.Equal(t, `\int_0^1 x\,dx`, c.Front)
				assert.Equal(t, "f1", c.FolderID)
				assert.Equal(t, domain.DifficultyHard, c.Difficulty)
			},
		},
		{
			name:    "blank front",
			draft:   domain.FlashcardDraft{Front: "   ", Back: "x"},
			wantErr: domain.ErrEmptyContent,
		},
		{
			name:    "blank back",
			draft:   domain.FlashcardDraft{Front: "x", Back: ""},
			wantErr: domain.ErrEmptyContent,
		},
		{
			name:    "unknown difficulty",
			draft:   domain.FlashcardDraft{Front: "x", Back: "y", Difficulty: "brutal"},
			wantErr: domain.ErrInvalidDifficulty,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, _ := newTestStore(t, store.NewMemoryKV())

			card, err := s.CreateFlashcard(tt.draft)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.Empty(t, s.Flashcards(), "state untouched on validation failure")
				return
			}
			require.NoError(t, err)
			tt.check(t, card)

			stored, ok := s.Flashcard(card.ID)
			require.True(t, ok)
			assert.Equal(t, card, stored)
		})
	}
}

func TestUpdateFlashcard(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t, store.NewMemoryKV())
	card := mustCreateCard(t, s, "q", "math", "")

	hard := domain.DifficultyHard
	ok, err := s.UpdateFlashcard(card.ID, domain.FlashcardPatch{
		Back:       strPtr("new answer"),
		Difficulty: &hard,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	got, _ := s.Flashcard(card.ID)
	assert.Equal(t, "new answer", got.Back)
	assert.Equal(t, domain.DifficultyHard, got.Difficulty)
	assert.Equal(t, card.ID, got.ID)
	assert.Equal(t, card.CreatedAt, got.CreatedAt)

	t.Run("unknown id is a no-op", func(t *testing.T) {
		before := s.Flashcards()
		ok, err := s.UpdateFlashcard("missing", domain.FlashcardPatch{Front: strPtr("x")})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, before, s.Flashcards())
	})

	t.Run("invalid patch is rejected", func(t *testing.T) {
		ok, err := s.UpdateFlashcard(card.ID, domain.FlashcardPatch{Front: strPtr(" ")})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.False(t, ok)
		got, _ := s.Flashcard(card.ID)
		assert.Equal(t, "q", got.Front)
	})

	t.Run("counters only grow", func(t *testing.T) {
		_, err := s.UpdateFlashcard(card.ID, domain.AnswerPatch(true, fixedNow))
		require.NoError(t, err)
		_, err = s.UpdateFlashcard(card.ID, domain.FlashcardPatch{CorrectDelta: -5, IncorrectDelta: -1})
		require.NoError(t, err)

		got, _ := s.Flashcard(card.ID)
		assert.Equal(t, 1, got.CorrectCount)
		assert.Equal(t, 0, got.IncorrectCount)
		require.NotNil(t, got.LastStudied)
		assert.Equal(t, fixedNow, *got.LastStudied)
	})
}

func TestDeleteFlashcard(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t, store.NewMemoryKV())
	folder, err := s.CreateFolder("Bio", "")
	require.NoError(t, err)
	a := mustCreateCard(t, s, "a", "", folder.ID)
	b := mustCreateCard(t, s, "b", "", folder.ID)

	assert.True(t, s.DeleteFlashcard(a.ID))
	assert.False(t, s.DeleteFlashcard(a.ID), "second delete is a no-op")

	cards := s.Flashcards()
	require.Len(t, cards, 1)
	assert.Equal(t, b.ID, cards[0].ID)

	f, _ := s.Folder(folder.ID)
	assert.Equal(t, 1, f.CardCount)
}

func TestMoveCardToFolder(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t, store.NewMemoryKV())
	f1, _ := s.CreateFolder("One", "")
	f2, _ := s.CreateFolder("Two", "#10B981")
	card := mustCreateCard(t, s, "q", "", f1.ID)

	require.True(t, s.MoveCardToFolder(card.ID, f2.ID))
	got1, _ := s.Folder(f1.ID)
	got2, _ := s.Folder(f2.ID)
	assert.Equal(t, 0, got1.CardCount)
	assert.Equal(t, 1, got2.CardCount)
	assert.Len(t, s.FlashcardsInFolder(f2.ID), 1)

	require.True(t, s.MoveCardToFolder(card.ID, ""))
	assert.Len(t, s.FlashcardsInFolder(""), 1)
	got2, _ = s.Folder(f2.ID)
	assert.Equal(t, 0, got2.CardCount)

	assert.False(t, s.MoveCardToFolder("missing", f1.ID))
}

func TestAccessorsReturnCopies(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t, store.NewMemoryKV())
	card := mustCreateCard(t, s, "q", "", "")
	_, err := s.UpdateFlashcard(card.ID, domain.AnswerPatch(false, fixedNow))
	require.NoError(t, err)

	cards := s.Flashcards()
	cards[0].Front = "mutated"
	*cards[0].LastStudied = fixedNow.AddDate(1, 0, 0)

	got, _ := s.Flashcard(card.ID)
	assert.Equal(t, "q", got.Front)
	assert.Equal(t, fixedNow, *got.LastStudied)
}

func TestFlashcardsByCategory(t *testing.T) {
	t.Parallel()
	s, _ := newTestStore(t, store.NewMemoryKV())
	mustCreateCard(t, s, "a", "math", "")
	mustCreateCard(t, s, "b", "history", "")
	mustCreateCard(t, s, "c", "math", "")

	assert.Len(t, s.FlashcardsByCategory("math"), 2)
	assert.Len(t, s.FlashcardsByCategory("history"), 1)
	assert.Empty(t, s.FlashcardsByCategory("language"))
}
