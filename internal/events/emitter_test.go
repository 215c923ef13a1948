package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// journal records which handler saw which event type, in call order.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) handler(name string, err error) HandlerFunc {
	return func(_ context.Context, event *Event) error {
		j.mu.Lock()
		defer j.mu.Unlock()
		j.entries = append(j.entries, name+":"+event.Type)
		return err
	}
}

func (j *journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

type finishedSession struct {
	ID             string    `json:"id"`
	TotalCards     int       `json:"totalCards"`
	CorrectAnswers int       `json:"correctAnswers"`
	StartTime      time.Time `json:"startTime"`
}

func TestEmitEvent_SessionCompletedReachesSubscriber(t *testing.T) {
	t.Parallel()
	log, _ := logger.GetTestLogger(t)
	emitter := NewInMemoryEventEmitter(log)

	var got finishedSession
	emitter.Subscribe(TypeSessionCompleted, HandlerFunc(func(_ context.Context, event *Event) error {
		return event.UnmarshalPayload(&got)
	}))

	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	event, err := NewEvent(TypeSessionCompleted, finishedSession{
		ID: "s-1", TotalCards: 4, CorrectAnswers: 3, StartTime: start,
	})
	require.NoError(t, err)

	require.NoError(t, emitter.EmitEvent(context.Background(), event))
	assert.Equal(t, "s-1", got.ID)
	assert.Equal(t, 4, got.TotalCards)
	assert.Equal(t, 3, got.CorrectAnswers)
	assert.True(t, start.Equal(got.StartTime))
}

func TestEmitEvent_RoutesByType(t *testing.T) {
	t.Parallel()
	log, _ := logger.GetTestLogger(t)
	emitter := NewInMemoryEventEmitter(log)
	j := &journal{}

	emitter.Subscribe(TypeSessionCompleted, j.handler("archive", nil))
	emitter.RegisterHandler(j.handler("audit", nil))

	other, err := NewEvent("card.deleted", map[string]string{"id": "c1"})
	require.NoError(t, err)
	done, err := NewEvent(TypeSessionCompleted, map[string]int{"totalCards": 1})
	require.NoError(t, err)

	require.NoError(t, emitter.EmitEvent(context.Background(), other))
	require.NoError(t, emitter.EmitEvent(context.Background(), done))

	assert.Equal(t, []string{
		"audit:card.deleted",
		"archive:" + TypeSessionCompleted,
		"audit:" + TypeSessionCompleted,
	}, j.Entries())
}

func TestEmitEvent_SynchronousInRegistrationOrder(t *testing.T) {
	t.Parallel()
	log, _ := logger.GetTestLogger(t)
	emitter := NewInMemoryEventEmitter(log)
	j := &journal{}

	for _, name := range []string{"first", "second", "third"} {
		emitter.Subscribe(TypeSessionCompleted, j.handler(name, nil))
	}

	event, err := NewEvent(TypeSessionCompleted, nil)
	require.NoError(t, err)
	require.NoError(t, emitter.EmitEvent(context.Background(), event))

	// Every handler has run by the time EmitEvent returns.
	assert.Equal(t, []string{
		"first:" + TypeSessionCompleted,
		"second:" + TypeSessionCompleted,
		"third:" + TypeSessionCompleted,
	}, j.Entries())
}

func TestEmitEvent_FailuresDoNotStopDelivery(t *testing.T) {
	t.Parallel()
	log, buf := logger.GetTestLogger(t)
	emitter := NewInMemoryEventEmitter(log)
	j := &journal{}

	diskFull := errors.New("disk full")
	busy := errors.New("busy")
	emitter.Subscribe(TypeSessionCompleted, j.handler("a", diskFull))
	emitter.Subscribe(TypeSessionCompleted, j.handler("b", nil))
	emitter.Subscribe(TypeSessionCompleted, j.handler("c", busy))

	event, err := NewEvent(TypeSessionCompleted, nil)
	require.NoError(t, err)

	err = emitter.EmitEvent(context.Background(), event)
	assert.ErrorIs(t, err, diskFull)
	assert.ErrorIs(t, err, busy)
	assert.Len(t, j.Entries(), 3)
	logger.AssertLogContains(t, buf, "event handler failed")
}

func TestEmitEvent_EdgeCases(t *testing.T) {
	t.Parallel()
	log, buf := logger.GetTestLogger(t)
	emitter := NewInMemoryEventEmitter(log)

	assert.ErrorIs(t, emitter.EmitEvent(context.Background(), nil), ErrNilEvent)

	event, err := NewEvent(TypeSessionCompleted, nil)
	require.NoError(t, err)
	assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	logger.AssertLogContains(t, buf, "event has no subscribers")
}
