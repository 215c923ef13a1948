package api

import (
	"github.com/phrazzld/flashdeck/internal/domain"
)

// CreateFlashcardRequest is the payload of POST /api/flashcards.
type CreateFlashcardRequest struct {
	Front      string `json:"front"      validate:"required"`
	Back       string `json:"back"       validate:"required"`
	Category   string `json:"category"   validate:"max=64"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	IsLatex    bool   `json:"isLatex"`
	FolderID   string `json:"folderId"`
}

func (r CreateFlashcardRequest) draft() domain.FlashcardDraft {
	return domain.FlashcardDraft{
		Front:      r.Front,
		Back:       r.Back,
		Category:   r.Category,
		Difficulty: domain.Difficulty(r.Difficulty),
		IsLatex:    r.IsLatex,
		FolderID:   r.FolderID,
	}
}

// UpdateFlashcardRequest is the payload of PATCH /api/flashcards/{id}.
// Omitted fields are left unchanged. Counters cannot be set.
type UpdateFlashcardRequest struct {
	Front      *string `json:"front"`
	Back       *string `json:"back"`
	Category   *string `json:"category"   validate:"omitempty,max=64"`
	Difficulty *string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	IsLatex    *bool   `json:"isLatex"`
	FolderID   *string `json:"folderId"`
}

func (r UpdateFlashcardRequest) patch() domain.FlashcardPatch {
	p := domain.FlashcardPatch{
		Front:    r.Front,
		Back:     r.Back,
		Category: r.Category,
		IsLatex:  r.IsLatex,
		FolderID: r.FolderID,
	}
	if r.Difficulty != nil {
		d := domain.Difficulty(*r.Difficulty)
		p.Difficulty = &d
	}
	return p
}

// MoveFlashcardRequest is the payload of PUT /api/flashcards/{id}/folder.
// A null or empty folderId unfiles the card.
type MoveFlashcardRequest struct {
	FolderID *string `json:"folderId"`
}

// CreateFolderRequest is the payload of POST /api/folders.
type CreateFolderRequest struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateFolderRequest is the payload of PATCH /api/folders/{id}.
type UpdateFolderRequest struct {
	Name  *string `json:"name"  validate:"omitempty,max=100"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

// CreateCategoryRequest is the payload of POST /api/categories.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

// StartStudyRequest selects the deck for a new session. With no filters
// every card is studied; an empty folderId selects unfiled cards.
type StartStudyRequest struct {
	FolderID *string `json:"folderId"`
	Category string  `json:"category"`
}

// AnswerRequest is the payload of POST /api/study/answer.
type AnswerRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// FlashcardListResponse lists cards. Loading is true while the store is
// still streaming cards in, in which case the list may be partial.
type FlashcardListResponse struct {
	Flashcards []domain.Flashcard `json:"flashcards"`
	Loading    bool               `json:"loading"`
}

// FolderListResponse lists folders.
type FolderListResponse struct {
	Folders []domain.Folder `json:"folders"`
}

// CategoryListResponse lists category labels.
type CategoryListResponse struct {
	Categories []string `json:"categories"`
}

// SessionListResponse lists archived study sessions.
type SessionListResponse struct {
	Sessions []domain.StudySession `json:"sessions"`
}
