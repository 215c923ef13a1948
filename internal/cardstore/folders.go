package cardstore

import (
	"log/slog"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/store"
)

// CreateFolder appends a folder with a zero card count and returns it.
// An empty color selects the default.
func (s *Store) CreateFolder(name, color string) (domain.Folder, error) {
	folder, err := domain.NewFolder(name, color, s.now())
	if err != nil {
		return domain.Folder{}, err
	}

	s.mu.Lock()
	s.folders = append(s.folders, *folder)
	s.recomputeFolderCountsLocked()
	created := s.folders[len(s.folders)-1]
	s.mu.Unlock()

	s.schedule(store.KeyFolders)
	s.logger.Debug("created folder", slog.String("folder_id", folder.ID))
	return created, nil
}

// UpdateFolder renames or recolors the folder with id. It reports false
// when no such folder exists.
func (s *Store) UpdateFolder(id string, patch domain.FolderPatch) (bool, error) {
	if err := patch.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	idx := s.folderIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.folders[idx] = s.folders[idx].Apply(patch)
	s.mu.Unlock()

	s.schedule(store.KeyFolders)
	return true, nil
}

// DeleteFolder unfiles every card in the folder and then removes it, in
// one critical section. It reports whether anything changed.
func (s *Store) DeleteFolder(id string) bool {
	if id == "" {
		return false
	}

	s.mu.Lock()
	if s.loading {
		s.cascades.folders[id] = struct{}{}
	}

	unfiled := 0
	for i := range s.flashcards {
		if s.flashcards[i].FolderID == id {
			s.flashcards[i].FolderID = ""
			unfiled++
		}
	}

	idx := s.folderIndexLocked(id)
	if idx >= 0 {
		s.folders = append(s.folders[:idx], s.folders[idx+1:]...)
	}
	s.recomputeFolderCountsLocked()
	s.mu.Unlock()

	var keys []string
	if unfiled > 0 {
		keys = append(keys, store.KeyFlashcards)
	}
	if idx >= 0 {
		keys = append(keys, store.KeyFolders)
	}
	s.schedule(keys...)

	if len(keys) > 0 {
		s.logger.Debug("deleted folder",
			slog.String("folder_id", id),
			slog.Int("unfiled_cards", unfiled))
	}
	return len(keys) > 0
}

// Folders returns a copy of every folder in creation order.
func (s *Store) Folders() []domain.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Folder{}, s.folders...)
}

// Folder returns the folder with id.
func (s *Store) Folder(id string) (domain.Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.folderIndexLocked(id)
	if idx < 0 {
		return domain.Folder{}, false
	}
	return s.folders[idx], true
}

// RecomputeFolderCounts sets every folder's card count from the current
// flashcard collection.
func (s *Store) RecomputeFolderCounts() {
	s.mu.Lock()
	changed := s.recomputeFolderCountsLocked()
	s.mu.Unlock()

	if changed {
		s.schedule(store.KeyFolders)
	}
}

// recomputeFolderCountsLocked reports whether any count changed.
func (s *Store) recomputeFolderCountsLocked() bool {
	counts := make(map[string]int, len(s.folders))
	for _, c := range s.flashcards {
		if c.FolderID != "" {
			counts[c.FolderID]++
		}
	}

	changed := false
	for i := range s.folders {
		n := counts[s.folders[i].ID]
		if s.folders[i].CardCount != n {
			s.folders[i].CardCount = n
			changed = true
		}
	}
	return changed
}

func (s *Store) folderIndexLocked(id string) int {
	for i := range s.folders {
		if s.folders[i].ID == id {
			return i
		}
	}
	return -1
}
