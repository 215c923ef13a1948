package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty is the author's rating of a card.
type Difficulty string

// Possible difficulty values
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Flashcard is a single question/answer card.
//
// Front and Back are opaque to the core. When IsLatex is set the
// presentation layer renders them as math markup. An empty FolderID means
// the card is unfiled.
type Flashcard struct {
	ID             string     `json:"id"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Category       string     `json:"category"`
	Difficulty     Difficulty `json:"difficulty"`
	IsLatex        bool       `json:"isLatex"`
	FolderID       string     `json:"folderId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastStudied    *time.Time `json:"lastStudied,omitempty"`
	CorrectCount   int        `json:"correctCount"`
	IncorrectCount int        `json:"incorrectCount"`
}

// Answered returns how many times the card has been answered in any session.
func (c Flashcard) Answered() int {
	return c.CorrectCount + c.IncorrectCount
}

// FlashcardDraft holds the author-supplied fields of a new card.
type FlashcardDraft struct {
	Front      string     `json:"front" validate:"required"`
	Back       string     `json:"back" validate:"required"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	IsLatex    bool       `json:"isLatex"`
	FolderID   string     `json:"folderId"`
}

// Normalize trims the text fields and fills in defaults for an empty
// category or difficulty.
func (d FlashcardDraft) Normalize() FlashcardDraft {
	d.Front = strings.TrimSpace(d.Front)
	d.Back = strings.TrimSpace(d.Back)
	d.Category = strings.TrimSpace(d.Category)
	if d.Category == "" {
		d.Category = FallbackCategory
	}
	if d.Difficulty == "" {
		d.Difficulty = DifficultyMedium
	}
	d.FolderID = strings.TrimSpace(d.FolderID)
	return d
}

// Validate checks the draft after normalization.
func (d FlashcardDraft) Validate() error {
	return validateStruct(d.Normalize())
}

// NewFlashcard builds a card from a draft with a fresh ID, zeroed counters
// and CreatedAt set to now. Returns a ValidationError if the draft is invalid.
func NewFlashcard(draft FlashcardDraft, now time.Time) (*Flashcard, error) {
	draft = draft.Normalize()
	if err := validateStruct(draft); err != nil {
		return nil, err
	}

	return &Flashcard{
		ID:         uuid.NewString(),
		Front:      draft.Front,
		Back:       draft.Back,
		Category:   draft.Category,
		Difficulty: draft.Difficulty,
		IsLatex:    draft.IsLatex,
		FolderID:   draft.FolderID,
		CreatedAt:  now,
	}, nil
}

// FlashcardPatch is a partial update. Nil fields are left untouched.
// ID and CreatedAt cannot be patched, and counters only ever grow: the
// deltas are added to the stored counts and negative deltas are ignored.
type FlashcardPatch struct {
	Front      *string     `json:"front,omitempty"`
	Back       *string     `json:"back,omitempty"`
	Category   *string     `json:"category,omitempty"`
	Difficulty *Difficulty `json:"difficulty,omitempty"`
	IsLatex    *bool       `json:"isLatex,omitempty"`
	// FolderID set to "" moves the card to unfiled.
	FolderID *string `json:"folderId,omitempty"`

	LastStudied    *time.Time `json:"-"`
	CorrectDelta   int        `json:"-"`
	IncorrectDelta int        `json:"-"`
}

// Validate rejects patches that would break a card invariant.
func (p FlashcardPatch) Validate() error {
	if p.Front != nil && strings.TrimSpace(*p.Front) == "" {
		return NewValidationError("front", "cannot be empty", ErrEmptyContent)
	}
	if p.Back != nil && strings.TrimSpace(*p.Back) == "" {
		return NewValidationError("back", "cannot be empty", ErrEmptyContent)
	}
	if p.Difficulty != nil && !p.Difficulty.Valid() {
		return NewValidationError("difficulty", "must be one of easy, medium, hard", ErrInvalidDifficulty)
	}
	return nil
}

// Apply returns a copy of c with the patch merged in.
func (c Flashcard) Apply(p FlashcardPatch) Flashcard {
	if p.Front != nil {
		c.Front = strings.TrimSpace(*p.Front)
	}
	if p.Back != nil {
		c.Back = strings.TrimSpace(*p.Back)
	}
	if p.Category != nil {
		c.Category = strings.TrimSpace(*p.Category)
		if c.Category == "" {
			c.Category = FallbackCategory
		}
	}
	if p.Difficulty != nil {
		c.Difficulty = *p.Difficulty
	}
	if p.IsLatex != nil {
		c.IsLatex = *p.IsLatex
	}
	if p.FolderID != nil {
		c.FolderID = strings.TrimSpace(*p.FolderID)
	}
	if p.LastStudied != nil {
		t := *p.LastStudied
		c.LastStudied = &t
	}
	if p.CorrectDelta > 0 {
		c.CorrectCount += p.CorrectDelta
	}
	if p.IncorrectDelta > 0 {
		c.IncorrectCount += p.IncorrectDelta
	}
	return c
}

// AnswerPatch builds the patch recorded when a card is answered in a session.
func AnswerPatch(correct bool, at time.Time) FlashcardPatch {
	p := FlashcardPatch{LastStudied: &at}
	if correct {
		p.CorrectDelta = 1
	} else {
		p.IncorrectDelta = 1
	}
	return p
}
