package api

import (
	"net/http"
	"testing"

	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashcardHandler_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantError  string
	}{
		{
			name: "valid card",
			body: map[string]interface{}{
				"front": "2+2", "back": "4", "category": "math", "difficulty": "easy", "isLatex": false,
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "defaults applied",
			body:       map[string]interface{}{"front": "capital of France", "back": "Paris"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing back",
			body:       map[string]interface{}{"front": "q"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid back: required field",
		},
		{
			name:       "whitespace front",
			body:       map[string]interface{}{"front": "   ", "back": "a"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid front: cannot be empty",
		},
		{
			name:       "bad difficulty",
			body:       map[string]interface{}{"front": "q", "back": "a", "difficulty": "insane"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid difficulty: invalid value",
		},
		{
			name:       "unknown field",
			body:       map[string]interface{}{"front": "q", "back": "a", "correctCount": 99},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "malformed json",
			body:       `{"front":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "empty body",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantError:  "Request body is required",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			api := newTestAPI(t)

			rec := api.do(t, http.MethodPost, "/api/flashcards", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantError != "" {
				resp := decodeBody[shared.ErrorResponse](t, rec)
				assert.Equal(t, tt.wantError, resp.Error)
				assert.NotEmpty(t, resp.TraceID)
				assert.Empty(t, api.store.Flashcards())
				return
			}

			card := decodeBody[domain.Flashcard](t, rec)
			assert.NotEmpty(t, card.ID)
			assert.Zero(t, card.CorrectCount)
			assert.NotEmpty(t, card.Category)
			assert.NotEmpty(t, card.Difficulty)
			assert.Len(t, api.store.Flashcards(), 1)
		})
	}
}

func TestFlashcardHandler_ListAndGet(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	folder, err := api.store.CreateFolder("Langs", "")
	require.NoError(t, err)
	a, _ := api.store.CreateFlashcard(domain.FlashcardDraft{Front: "hola", Back: "hello", Category: "language", FolderID: folder.ID})
	_, _ = api.store.CreateFlashcard(domain.FlashcardDraft{Front: "pi", Back: "3.14", Category: "math"})
	_, _ = api.store.CreateFlashcard(domain.FlashcardDraft{Front: "e", Back: "2.71", Category: "math", FolderID: folder.ID})

	all := decodeBody[FlashcardListResponse](t, api.do(t, http.MethodGet, "/api/flashcards", nil))
	assert.Len(t, all.Flashcards, 3)
	assert.False(t, all.Loading)

	inFolder := decodeBody[FlashcardListResponse](t, api.do(t, http.MethodGet, "/api/flashcards?folder="+folder.ID, nil))
	assert.Len(t, inFolder.Flashcards, 2)

	unfiled := decodeBody[FlashcardListResponse](t, api.do(t, http.MethodGet, "/api/flashcards?folder=", nil))
	assert.Len(t, unfiled.Flashcards, 1)

	mathInFolder := decodeBody[FlashcardListResponse](t,
		api.do(t, http.MethodGet, "/api/flashcards?category=math&folder="+folder.ID, nil))
	require.Len(t, mathInFolder.Flashcards, 1)
	assert.Equal(t, "e", mathInFolder.Flashcards[0].Front)

	rec := api.do(t, http.MethodGet, "/api/flashcards/"+a.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, a.ID, decodeBody[domain.Flashcard](t, rec).ID)

	rec = api.do(t, http.MethodGet, "/api/flashcards/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Flashcard not found", decodeBody[shared.ErrorResponse](t, rec).Error)
}

func TestFlashcardHandler_Update(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	card, err := api.store.CreateFlashcard(domain.FlashcardDraft{Front: "q", Back: "a"})
	require.NoError(t, err)

	rec := api.do(t, http.MethodPatch, "/api/flashcards/"+card.ID,
		map[string]interface{}{"back": "better answer", "difficulty": "hard", "isLatex": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[domain.Flashcard](t, rec)
	assert.Equal(t, "q", updated.Front)
	assert.Equal(t, "better answer", updated.Back)
	assert.Equal(t, domain.DifficultyHard, updated.Difficulty)
	assert.True(t, updated.IsLatex)
	assert.Equal(t, card.CreatedAt.UTC(), updated.CreatedAt.UTC())

	rec = api.do(t, http.MethodPatch, "/api/flashcards/"+card.ID, map[string]interface{}{"front": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPatch, "/api/flashcards/"+card.ID, map[string]interface{}{"id": "hijack"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "id is not patchable")

	rec = api.do(t, http.MethodPatch, "/api/flashcards/missing", map[string]interface{}{"front": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFlashcardHandler_MoveAndDelete(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	folder, err := api.store.CreateFolder("Box", "")
	require.NoError(t, err)
	card, err := api.store.CreateFlashcard(domain.FlashcardDraft{Front: "q", Back: "a"})
	require.NoError(t, err)

	rec := api.do(t, http.MethodPut, "/api/flashcards/"+card.ID+"/folder", map[string]interface{}{"folderId": folder.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, folder.ID, decodeBody[domain.Flashcard](t, rec).FolderID)
	f, _ := api.store.Folder(folder.ID)
	assert.Equal(t, 1, f.CardCount)

	rec = api.do(t, http.MethodPut, "/api/flashcards/"+card.ID+"/folder", map[string]interface{}{"folderId": nil})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[domain.Flashcard](t, rec).FolderID)

	rec = api.do(t, http.MethodDelete, "/api/flashcards/"+card.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(t, http.MethodDelete, "/api/flashcards/"+card.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
