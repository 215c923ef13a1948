package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
)

// FolderHandler handles folder and category HTTP requests.
type FolderHandler struct {
	store  CardStore
	logger *slog.Logger
}

// NewFolderHandler creates a new FolderHandler
func NewFolderHandler(store CardStore, logger *slog.Logger) *FolderHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FolderHandler")
	}
	return &FolderHandler{
		store:  store,
		logger: logger.With(slog.String("component", "folder_handler")),
	}
}

// ListFolders handles GET /folders.
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, FolderListResponse{Folders: h.store.Folders()})
}

// CreateFolder handles POST /folders.
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateFolderRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	folder, err := h.store.CreateFolder(req.Name, req.Color)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create folder")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, folder)
}

// UpdateFolder handles PATCH /folders/{id}.
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathParam(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateFolderRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	found, err := h.store.UpdateFolder(id, domain.FolderPatch{Name: req.Name, Color: req.Color})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update folder")
		return
	}
	if !found {
		HandleAPIError(w, r, ErrFolderNotFound, "")
		return
	}

	folder, _ := h.store.Folder(id)
	shared.RespondWithJSON(w, r, http.StatusOK, folder)
}

// DeleteFolder handles DELETE /folders/{id}. Cards in the folder are
// unfiled, not deleted.
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := getPathParam(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if !h.store.DeleteFolder(id) {
		HandleAPIError(w, r, ErrFolderNotFound, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /categories.
func (h *FolderHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, CategoryListResponse{Categories: h.store.Categories()})
}

// CreateCategory handles POST /categories. Creating an existing category
// succeeds without change.
func (h *FolderHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateCategoryRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	if _, err := h.store.CreateCategory(req.Name); err != nil {
		HandleAPIError(w, r, err, "Failed to create category")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, CategoryListResponse{Categories: h.store.Categories()})
}

// DeleteCategory handles DELETE /categories/{name}. Cards in the category
// move to the fallback category.
func (h *FolderHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	name, err := getPathParam(r, "name")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	changed, err := h.store.DeleteCategory(name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete category")
		return
	}
	if !changed {
		HandleAPIError(w, r, ErrCategoryNotFound, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
