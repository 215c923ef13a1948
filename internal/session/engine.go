package session

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/events"
)

var (
	// ErrEmptyDeck is returned by Start and Reset when there is nothing to
	// study. It is an outcome for the caller to present, not a failure.
	ErrEmptyDeck = errors.New("no cards to study")

	// ErrNoActiveSession is returned when answering before any session
	// was started.
	ErrNoActiveSession = errors.New("no study session in progress")

	// ErrSessionComplete is returned when answering after the last card.
	ErrSessionComplete = errors.New("study session already complete")
)

// CardUpdater is the part of the card store the engine writes through.
type CardUpdater interface {
	UpdateFlashcard(id string, patch domain.FlashcardPatch) (bool, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSeed makes shuffles reproducible. Without it every engine draws a
// random seed.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithEmitter publishes a session.completed event when a pass finishes.
func WithEmitter(emitter events.EventEmitter) Option {
	return func(e *Engine) { e.emitter = emitter }
}

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine walks one shuffled deck at a time. It is safe for concurrent
// use, though a session is normally driven by a single caller.
type Engine struct {
	cards   CardUpdater
	emitter events.EventEmitter
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	rng      *rand.Rand
	state    State
	deck     []domain.Flashcard
	pos      int
	revealed bool
	session  domain.StudySession
}

// NewEngine returns an idle engine that records answers through cards.
func NewEngine(cards CardUpdater, opts ...Option) *Engine {
	e := &Engine{
		cards:  cards,
		logger: slog.Default(),
		now:    time.Now,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(slog.String("component", "study_session"))
	return e
}

// Start begins a pass over a shuffled copy of cards. With no cards it
// returns ErrEmptyDeck and leaves the engine as it was. Starting while a
// session is in progress abandons it.
func (e *Engine) Start(cards []domain.Flashcard) error {
	if len(cards) == 0 {
		e.logger.Debug("nothing to study")
		return ErrEmptyDeck
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateInProgress {
		e.logger.Info("abandoning unfinished session",
			slog.String("session_id", e.session.ID),
			slog.Int("answered", e.session.Answered()),
			slog.Int("total_cards", e.session.TotalCards))
	}
	e.beginLocked(cards)
	return nil
}

// Reset discards the current session, finished or not, and starts a new
// one over cards. With no cards the engine returns to idle and
// ErrEmptyDeck is returned.
func (e *Engine) Reset(cards []domain.Flashcard) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(cards) == 0 {
		e.state = StateIdle
		e.deck = nil
		e.pos = 0
		e.revealed = false
		e.session = domain.StudySession{}
		return ErrEmptyDeck
	}
	e.beginLocked(cards)
	return nil
}

func (e *Engine) beginLocked(cards []domain.Flashcard) {
	deck := make([]domain.Flashcard, len(cards))
	copy(deck, cards)
	// Shuffle is an unbiased Fisher-Yates.
	e.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	e.deck = deck
	e.pos = 0
	e.revealed = false
	e.state = StateInProgress
	e.session = domain.NewStudySession(len(deck), e.now())

	e.logger.Info("study session started",
		slog.String("session_id", e.session.ID),
		slog.Int("total_cards", len(deck)))
}

// Flip toggles whether the answer side is shown. It never touches the
// counters and does nothing outside a running session.
func (e *Engine) Flip() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateInProgress {
		return false
	}
	e.revealed = !e.revealed
	return e.revealed
}

// Answer records the outcome for the current card, stores it on the card
// and advances. Answering the last card completes the session.
func (e *Engine) Answer(ctx context.Context, correct bool) error {
	e.mu.Lock()

	switch e.state {
	case StateIdle:
		e.mu.Unlock()
		e.logger.ErrorContext(ctx, "answer called without an active session")
		return ErrNoActiveSession
	case StateComplete:
		sessionID := e.session.ID
		e.mu.Unlock()
		e.logger.ErrorContext(ctx, "answer called after session completed",
			slog.String("session_id", sessionID))
		return ErrSessionComplete
	}

	now := e.now()
	card := e.deck[e.pos]

	found, err := e.cards.UpdateFlashcard(card.ID, domain.AnswerPatch(correct, now))
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to record answer on card",
			slog.String("card_id", card.ID),
			slog.String("error", err.Error()))
	} else if !found {
		e.logger.DebugContext(ctx, "answered card no longer exists",
			slog.String("card_id", card.ID))
	}

	if correct {
		e.session.CorrectAnswers++
	} else {
		e.session.IncorrectAnswers++
	}
	e.pos++
	e.revealed = false

	if e.pos < len(e.deck) {
		e.mu.Unlock()
		return nil
	}

	e.state = StateComplete
	e.session.EndTime = &now
	finished := e.session
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "study session completed",
		slog.String("session_id", finished.ID),
		slog.Int("total_cards", finished.TotalCards),
		slog.Int("correct", finished.CorrectAnswers),
		slog.Int("incorrect", finished.IncorrectAnswers),
		slog.Int("accuracy", finished.Accuracy()),
		slog.Int("duration_minutes", finished.DurationMinutes(now)))

	e.publish(ctx, finished)
	return nil
}

func (e *Engine) publish(ctx context.Context, finished domain.StudySession) {
	if e.emitter == nil {
		return
	}
	event, err := events.NewEvent(events.TypeSessionCompleted, finished)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to build session event", slog.String("error", err.Error()))
		return
	}
	if err := e.emitter.EmitEvent(ctx, event); err != nil {
		e.logger.ErrorContext(ctx, "failed to publish completed session",
			slog.String("session_id", finished.ID),
			slog.String("error", err.Error()))
	}
}

// State returns the engine's lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Current returns the card awaiting an answer.
func (e *Engine) Current() (domain.Flashcard, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateInProgress {
		return domain.Flashcard{}, false
	}
	return e.deck[e.pos], true
}

// Position returns the zero-based index of the current card and the deck
// size. Once complete the index equals the deck size.
func (e *Engine) Position() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos, len(e.deck)
}

// Revealed reports whether the current card is flipped.
func (e *Engine) Revealed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.revealed
}

// Session returns the counters of the current or last session.
func (e *Engine) Session() (domain.StudySession, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateIdle {
		return domain.StudySession{}, false
	}
	return e.session, true
}

// Accuracy is the rounded percentage of correct answers over the deck.
func (e *Engine) Accuracy() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Accuracy()
}

// DurationMinutes is the rounded length of the session, measured to now
// while it is still running.
func (e *Engine) DurationMinutes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateIdle {
		return 0
	}
	return e.session.DurationMinutes(e.now())
}

// Snapshot is a consistent view of the engine for presentation.
type Snapshot struct {
	State           State                `json:"state"`
	Position        int                  `json:"position"`
	Total           int                  `json:"total"`
	Revealed        bool                 `json:"revealed"`
	Current         *domain.Flashcard    `json:"current,omitempty"`
	Session         *domain.StudySession `json:"session,omitempty"`
	Accuracy        int                  `json:"accuracy"`
	DurationMinutes int                  `json:"durationMinutes"`
}

// Snapshot captures every accessor under one lock.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		State:    e.state,
		Position: e.pos,
		Total:    len(e.deck),
		Revealed: e.revealed,
	}
	if e.state == StateInProgress {
		card := e.deck[e.pos]
		snap.Current = &card
	}
	if e.state != StateIdle {
		sess := e.session
		snap.Session = &sess
		snap.Accuracy = sess.Accuracy()
		snap.DurationMinutes = sess.DurationMinutes(e.now())
	}
	return snap
}
