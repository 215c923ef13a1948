package cardstore

import (
	"math"
	"time"

	"github.com/phrazzld/flashdeck/internal/domain"
)

// Stats summarises the collection for a dashboard.
type Stats struct {
	TotalCards   int `json:"totalCards"`
	StudiedToday int `json:"studiedToday"`
	// AverageAccuracy is the rounded percentage of correct answers over
	// every answer ever recorded, or 0 when nothing was answered.
	AverageAccuracy  int                       `json:"averageAccuracy"`
	TotalAnswers     int                       `json:"totalAnswers"`
	UnfiledCards     int                       `json:"unfiledCards"`
	ByCategory       map[string]int            `json:"byCategory"`
	ByDifficulty     map[domain.Difficulty]int `json:"byDifficulty"`
	TotalFolders     int                       `json:"totalFolders"`
	TotalSessions    int                       `json:"totalSessions"`
	LastSessionStart *time.Time                `json:"lastSessionStart,omitempty"`
}

// Stats computes the summary from the current state.
func (s *Store) Stats() Stats {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		TotalCards:    len(s.flashcards),
		ByCategory:    make(map[string]int),
		ByDifficulty:  make(map[domain.Difficulty]int),
		TotalFolders:  len(s.folders),
		TotalSessions: len(s.sessions),
	}

	correct := 0
	for _, c := range s.flashcards {
		st.ByCategory[c.Category]++
		st.ByDifficulty[c.Difficulty]++
		if c.FolderID == "" {
			st.UnfiledCards++
		}
		if c.LastStudied != nil && sameDay(*c.LastStudied, now) {
			st.StudiedToday++
		}
		correct += c.CorrectCount
		st.TotalAnswers += c.Answered()
	}
	if st.TotalAnswers > 0 {
		st.AverageAccuracy = int(math.Round(float64(correct) / float64(st.TotalAnswers) * 100))
	}

	for _, sess := range s.sessions {
		if st.LastSessionStart == nil || sess.StartTime.After(*st.LastSessionStart) {
			t := sess.StartTime
			st.LastSessionStart = &t
		}
	}
	return st
}

// sameDay compares calendar dates in now's location.
func sameDay(t, now time.Time) bool {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
