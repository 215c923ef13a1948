package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/session"
)

// StudyHandler drives the single study session and serves statistics.
type StudyHandler struct {
	store  CardStore
	engine StudyEngine
	logger *slog.Logger
}

// NewStudyHandler creates a new StudyHandler
func NewStudyHandler(store CardStore, engine StudyEngine, logger *slog.Logger) *StudyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}
	return &StudyHandler{
		store:  store,
		engine: engine,
		logger: logger.With(slog.String("component", "study_handler")),
	}
}

// Current handles GET /study.
func (h *StudyHandler) Current(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.engine.Snapshot())
}

// Start handles POST /study/start. It answers 204 when the selected deck
// is empty.
func (h *StudyHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.begin(w, r, h.engine.Start)
}

// Reset handles POST /study/reset.
func (h *StudyHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.begin(w, r, h.engine.Reset)
}

func (h *StudyHandler) begin(w http.ResponseWriter, r *http.Request, start func([]domain.Flashcard) error) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req StartStudyRequest
	if r.ContentLength != 0 {
		if !decodeAndValidate(w, r, &req, log) {
			return
		}
	}

	// A deck drawn mid-load would silently miss cards.
	if err := h.store.Wait(r.Context()); err != nil {
		HandleAPIError(w, r, err, "Cards are still loading")
		return
	}

	var deck []domain.Flashcard
	if req.FolderID != nil {
		deck = h.store.FlashcardsInFolder(*req.FolderID)
	} else {
		deck = h.store.Flashcards()
	}
	if req.Category != "" {
		deck = filterCategory(deck, req.Category)
	}

	if err := start(deck); err != nil {
		if errors.Is(err, session.ErrEmptyDeck) {
			log.Debug("nothing to study")
		}
		HandleAPIError(w, r, err, "Failed to start study session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.engine.Snapshot())
}

// Flip handles POST /study/flip.
func (h *StudyHandler) Flip(w http.ResponseWriter, r *http.Request) {
	h.engine.Flip()
	shared.RespondWithJSON(w, r, http.StatusOK, h.engine.Snapshot())
}

// Answer handles POST /study/answer.
func (h *StudyHandler) Answer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req AnswerRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	if err := h.engine.Answer(r.Context(), *req.Correct); err != nil {
		HandleAPIError(w, r, err, "Failed to record answer")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.engine.Snapshot())
}

// Stats handles GET /stats.
func (h *StudyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.store.Stats())
}

// Sessions handles GET /sessions.
func (h *StudyHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, SessionListResponse{Sessions: h.store.Sessions()})
}
