package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/flashdeck/internal/api/middleware"
)

// NewRouter wires every handler under /api plus a /health probe.
func NewRouter(store CardStore, engine StudyEngine, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(logger))

	flashcards := NewFlashcardHandler(store, logger)
	folders := NewFolderHandler(store, logger)
	study := NewStudyHandler(store, engine, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/flashcards", func(r chi.Router) {
			r.Get("/", flashcards.List)
			r.Post("/", flashcards.Create)
			r.Get("/{id}", flashcards.Get)
			r.Patch("/{id}", flashcards.Update)
			r.Delete("/{id}", flashcards.Delete)
			r.Put("/{id}/folder", flashcards.Move)
		})

		r.Route("/folders", func(r chi.Router) {
			r.Get("/", folders.ListFolders)
			r.Post("/", folders.CreateFolder)
			r.Patch("/{id}", folders.UpdateFolder)
			r.Delete("/{id}", folders.DeleteFolder)
		})

		r.Get("/categories", folders.ListCategories)
		r.Post("/categories", folders.CreateCategory)
		r.Delete("/categories/{name}", folders.DeleteCategory)

		r.Get("/stats", study.Stats)
		r.Get("/sessions", study.Sessions)

		r.Route("/study", func(r chi.Router) {
			r.Get("/", study.Current)
			r.Post("/start", study.Start)
			r.Post("/reset", study.Reset)
			r.Post("/flip", study.Flip)
			r.Post("/answer", study.Answer)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
