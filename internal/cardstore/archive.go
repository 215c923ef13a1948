package cardstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/events"
	"github.com/phrazzld/flashdeck/internal/store"
)

// RecordSession appends a finished session to the history. A session
// already recorded under the same id is replaced.
func (s *Store) RecordSession(session domain.StudySession) {
	if session.EndTime != nil {
		t := *session.EndTime
		session.EndTime = &t
	}

	s.mu.Lock()
	replaced := false
	for i := range s.sessions {
		if s.sessions[i].ID == session.ID {
			s.sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		s.sessions = append(s.sessions, session)
	}
	s.mu.Unlock()

	s.schedule(store.KeySessions)
}

// Sessions returns the recorded study sessions, oldest first.
func (s *Store) Sessions() []domain.StudySession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.StudySession, len(s.sessions))
	for i, sess := range s.sessions {
		if sess.EndTime != nil {
			t := *sess.EndTime
			sess.EndTime = &t
		}
		out[i] = sess
	}
	return out
}

// SessionArchiver records completed study sessions delivered as events.
type SessionArchiver struct {
	store  *Store
	logger *slog.Logger
}

// NewSessionArchiver returns an event handler that appends every
// session.completed event to the store's history.
func NewSessionArchiver(s *Store) *SessionArchiver {
	return &SessionArchiver{
		store:  s,
		logger: s.logger.With(slog.String("handler", "session_archiver")),
	}
}

var _ events.EventHandler = (*SessionArchiver)(nil)

// HandleEvent implements events.EventHandler. Other event types are ignored.
func (a *SessionArchiver) HandleEvent(_ context.Context, event *events.Event) error {
	if event.Type != events.TypeSessionCompleted {
		return nil
	}

	var session domain.StudySession
	if err := event.UnmarshalPayload(&session); err != nil {
		return fmt.Errorf("decode completed session %s: %w", event.ID, err)
	}

	a.store.RecordSession(session)
	a.logger.Info("archived study session",
		slog.String("session_id", session.ID),
		slog.Int("total_cards", session.TotalCards),
		slog.Int("accuracy", session.Accuracy()))
	return nil
}
