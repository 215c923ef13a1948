package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
)

// FlashcardHandler handles flashcard-related HTTP requests
type FlashcardHandler struct {
	store  CardStore
	logger *slog.Logger
}

// NewFlashcardHandler creates a new FlashcardHandler
func NewFlashcardHandler(store CardStore, logger *slog.Logger) *FlashcardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FlashcardHandler")
	}
	return &FlashcardHandler{
		store:  store,
		logger: logger.With(slog.String("component", "flashcard_handler")),
	}
}

// List handles GET /flashcards. The optional folder and category query
// parameters narrow the list; folder= with an empty value selects the
// unfiled cards.
func (h *FlashcardHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var cards []domain.Flashcard
	if query.Has("folder") {
		cards = h.store.FlashcardsInFolder(query.Get("folder"))
	} else {
		cards = h.store.Flashcards()
	}
	if category := query.Get("category"); category != "" {
		cards = filterCategory(cards, category)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FlashcardListResponse{
		Flashcards: cards,
		Loading:    h.store.Loading(),
	})
}

// Get handles GET /flashcards/{id}.
func (h *FlashcardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathParam(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, ok := h.store.Flashcard(id)
	if !ok {
		HandleAPIError(w, r, ErrFlashcardNotFound, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// Create handles POST /flashcards.
func (h *FlashcardHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateFlashcardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.store.CreateFlashcard(req.draft())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create flashcard")
		return
	}

	log.Debug("flashcard created", slog.String("card_id", card.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// Update handles PATCH /flashcards/{id}.
func (h *FlashcardHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathParam(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateFlashcardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	found, err := h.store.UpdateFlashcard(id, req.patch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update flashcard")
		return
	}
	if !found {
		HandleAPIError(w, r, ErrFlashcardNotFound, "")
		return
	}

	card, _ := h.store.Flashcard(id)
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// Move handles PUT /flashcards/{id}/folder.
func (h *FlashcardHandler) Move(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathParam(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req MoveFlashcardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	folderID := ""
	if req.FolderID != nil {
		folderID = *req.FolderID
	}
	if !h.store.MoveCardToFolder(id, folderID) {
		HandleAPIError(w, r, ErrFlashcardNotFound, "")
		return
	}

	card, _ := h.store.Flashcard(id)
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// Delete handles DELETE /flashcards/{id}.
func (h *FlashcardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathParam(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if !h.store.DeleteFlashcard(id) {
		HandleAPIError(w, r, ErrFlashcardNotFound, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func filterCategory(cards []domain.Flashcard, category string) []domain.Flashcard {
	out := cards[:0]
	for _, c := range cards {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}
