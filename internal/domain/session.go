package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// StudySession records the counters of one pass over a deck.
type StudySession struct {
	ID               string     `json:"id"`
	TotalCards       int        `json:"totalCards"`
	CorrectAnswers   int        `json:"correctAnswers"`
	IncorrectAnswers int        `json:"incorrectAnswers"`
	StartTime        time.Time  `json:"startTime"`
	EndTime          *time.Time `json:"endTime,omitempty"`
}

// NewStudySession starts the counters for a deck of total cards.
func NewStudySession(total int, now time.Time) StudySession {
	return StudySession{
		ID:         uuid.NewString(),
		TotalCards: total,
		StartTime:  now,
	}
}

// Answered returns the number of cards answered so far.
func (s StudySession) Answered() int {
	return s.CorrectAnswers + s.IncorrectAnswers
}

// Finished reports whether EndTime has been set.
func (s StudySession) Finished() bool {
	return s.EndTime != nil
}

// Accuracy is the rounded percentage of correct answers over the deck size,
// or 0 for an empty deck.
func (s StudySession) Accuracy() int {
	if s.TotalCards <= 0 {
		return 0
	}
	return int(math.Round(float64(s.CorrectAnswers) / float64(s.TotalCards) * 100))
}

// DurationMinutes is the rounded session length in minutes. Unfinished
// sessions are measured up to now.
func (s StudySession) DurationMinutes(now time.Time) int {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	return int(math.Round(end.Sub(s.StartTime).Minutes()))
}
