package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStudySessionAccuracy(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		session  StudySession
		expected int
	}{
		{"empty deck", StudySession{}, 0},
		{"all correct", StudySession{TotalCards: 4, CorrectAnswers: 4}, 100},
		{"two of three rounds up", StudySession{TotalCards: 3, CorrectAnswers: 2, IncorrectAnswers: 1}, 67},
		{"one of three rounds down", StudySession{TotalCards: 3, CorrectAnswers: 1, IncorrectAnswers: 2}, 33},
		{"half", StudySession{TotalCards: 2, CorrectAnswers: 1}, 50},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.session.Accuracy())
		})
	}
}

func TestStudySessionDuration(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s := NewStudySession(3, start)

	assert.Equal(t, 3, s.TotalCards)
	assert.False(t, s.Finished())
	assert.Equal(t, 2, s.DurationMinutes(start.Add(140*time.Second)))

	end := start.Add(10*time.Minute + 20*time.Second)
	s.EndTime = &end
	assert.True(t, s.Finished())
	assert.Equal(t, 10, s.DurationMinutes(start.Add(time.Hour)))
}
