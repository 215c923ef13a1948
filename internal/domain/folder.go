package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultFolderColor is used when a folder is created without a color.
const DefaultFolderColor = "#3B82F6"

// Folder groups flashcards. CardCount is derived from the flashcard
// collection and is never set by callers.
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	CardCount int       `json:"cardCount"`
}

// NewFolder creates a folder with a fresh ID and a zero card count.
// Returns a ValidationError if the trimmed name is empty.
func NewFolder(name, color string, now time.Time) (*Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "cannot be empty", ErrEmptyContent)
	}

	color = strings.TrimSpace(color)
	if color == "" {
		color = DefaultFolderColor
	}

	return &Folder{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		CreatedAt: now,
	}, nil
}

// FolderPatch is a partial folder update. There is deliberately no card
// count field.
type FolderPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// Validate rejects a rename to a blank name.
func (p FolderPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return NewValidationError("name", "cannot be empty", ErrEmptyContent)
	}
	return nil
}

// Apply returns a copy of f with the patch merged in.
func (f Folder) Apply(p FolderPatch) Folder {
	if p.Name != nil {
		f.Name = strings.TrimSpace(*p.Name)
	}
	if p.Color != nil {
		f.Color = strings.TrimSpace(*p.Color)
		if f.Color == "" {
			f.Color = DefaultFolderColor
		}
	}
	return f
}
