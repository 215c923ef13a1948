package api

import (
	"context"

	"github.com/phrazzld/flashdeck/internal/cardstore"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/session"
)

// CardStore is the card store surface the handlers use.
type CardStore interface {
	CreateFlashcard(draft domain.FlashcardDraft) (domain.Flashcard, error)
	UpdateFlashcard(id string, patch domain.FlashcardPatch) (bool, error)
	DeleteFlashcard(id string) bool
	MoveCardToFolder(cardID, folderID string) bool
	Flashcards() []domain.Flashcard
	Flashcard(id string) (domain.Flashcard, bool)
	FlashcardsInFolder(folderID string) []domain.Flashcard
	FlashcardsByCategory(category string) []domain.Flashcard

	CreateFolder(name, color string) (domain.Folder, error)
	UpdateFolder(id string, patch domain.FolderPatch) (bool, error)
	DeleteFolder(id string) bool
	Folders() []domain.Folder
	Folder(id string) (domain.Folder, bool)

	CreateCategory(name string) (string, error)
	DeleteCategory(name string) (bool, error)
	Categories() []string

	Sessions() []domain.StudySession
	Stats() cardstore.Stats
	Loading() bool
	Wait(ctx context.Context) error
}

// StudyEngine is the session engine surface the handlers use.
type StudyEngine interface {
	Start(cards []domain.Flashcard) error
	Reset(cards []domain.Flashcard) error
	Flip() bool
	Answer(ctx context.Context, correct bool) error
	Snapshot() session.Snapshot
}

var (
	_ CardStore   = (*cardstore.Store)(nil)
	_ StudyEngine = (*session.Engine)(nil)
)
