package cardstore

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/store"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testWindow = 30 * time.Millisecond

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// countingKV wraps MemoryKV and counts writes per key.
type countingKV struct {
	*store.MemoryKV
	mu     sync.Mutex
	writes map[string]int
}

func newCountingKV() *countingKV {
	return &countingKV{MemoryKV: store.NewMemoryKV(), writes: make(map[string]int)}
}

func (c *countingKV) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	c.writes[key]++
	c.mu.Unlock()
	return c.MemoryKV.Set(ctx, key, value)
}

func (c *countingKV) Writes(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes[key]
}

// mockKV is a testify mock of store.KVStore.
type mockKV struct {
	mock.Mock
}

func (m *mockKV) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if b, ok := args.Get(0).([]byte); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockKV) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *mockKV) Close() error {
	return m.Called().Error(0)
}

// newTestStore opens a store over kv, waits for loading and closes it at
// the end of the test.
func newTestStore(t *testing.T, kv store.KVStore) (*Store, *logger.TestLogBuffer) {
	t.Helper()

	log, buf := logger.GetTestLogger(t)
	s, err := Open(context.Background(), kv, Options{
		DebounceWindow: testWindow,
		LoadBatchSize:  5,
		WriteRetries:   1,
		Logger:         log,
		Now:            func() time.Time { return fixedNow },
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Close(ctx)
	})
	return s, buf
}

func seedJSON(t *testing.T, kv store.KVStore, key string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), key, data))
}

func storedCards(t *testing.T, kv store.KVStore) []domain.Flashcard {
	t.Helper()
	data, err := kv.Get(context.Background(), store.KeyFlashcards)
	require.NoError(t, err)
	var cards []domain.Flashcard
	require.NoError(t, json.Unmarshal(data, &cards))
	return cards
}

func mustCreateCard(t *testing.T, s *Store, front, category, folderID string) domain.Flashcard {
	t.Helper()
	card, err := s.CreateFlashcard(domain.FlashcardDraft{
		Front:    front,
		Back:     front + " answer",
		Category: category,
		FolderID: folderID,
	})
	require.NoError(t, err)
	return card
}

func strPtr(s string) *string { return &s }
