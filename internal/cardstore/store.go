package cardstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/store"
)

// Default tuning values.
const (
	DefaultDebounceWindow = time.Second
	DefaultLoadBatchSize  = 20
	DefaultWriteRetries   = 2
)

// ErrAlreadyLoaded is returned when Load is called twice on one store.
var ErrAlreadyLoaded = errors.New("card store already loaded")

// ErrLoadIncomplete is returned when persisting a key whose stored value
// was never fully read. Writing it would replace the stored data with a
// partial copy, so changes to that key stay in memory.
var ErrLoadIncomplete = errors.New("key not fully loaded, refusing to overwrite stored value")

// Options configures a Store. Zero values select the defaults.
type Options struct {
	DebounceWindow time.Duration
	LoadBatchSize  int
	WriteRetries   int
	WriterWorkers  int
	Logger         *slog.Logger
	// Now returns the current time. Tests replace it with a fixed clock.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = DefaultDebounceWindow
	}
	if o.LoadBatchSize <= 0 {
		o.LoadBatchSize = DefaultLoadBatchSize
	}
	if o.WriteRetries < 0 {
		o.WriteRetries = 0
	}
	if o.WriterWorkers <= 0 {
		o.WriterWorkers = 1
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// loadCascades records deletions made while flashcards are still
// streaming in, so batches appended later honour them.
type loadCascades struct {
	cards      map[string]struct{}
	folders    map[string]struct{}
	categories map[string]struct{}
}

func newLoadCascades() *loadCascades {
	return &loadCascades{
		cards:      make(map[string]struct{}),
		folders:    make(map[string]struct{}),
		categories: make(map[string]struct{}),
	}
}

// Store is the in-memory source of truth for flashcards, folders,
// categories and the session history, mirrored to a KVStore.
//
// All methods are safe for concurrent use. Each public call is atomic
// with respect to every other one; cascades are applied inside a single
// critical section.
type Store struct {
	kv        store.KVStore
	logger    *slog.Logger
	now       func() time.Time
	batchSize int

	mu         sync.RWMutex
	flashcards []domain.Flashcard
	folders    []domain.Folder
	categories []string
	sessions   []domain.StudySession

	loadStarted bool
	loading     bool
	cascades    *loadCascades
	ready       chan struct{}
	// unloaded holds keys whose stored value could not be read in full.
	unloaded map[string]struct{}

	// afterBatch, when set, runs on the loader goroutine after each batch
	// with the number of records streamed so far.
	afterBatch func(streamed int)

	writer *writeScheduler
}

// New creates an empty store backed by kv. Call Load before use.
func New(kv store.KVStore, opts Options) *Store {
	opts = opts.withDefaults()
	logger := opts.Logger.With(slog.String("component", "card_store"))

	s := &Store{
		kv:         kv,
		logger:     logger,
		now:        opts.Now,
		batchSize:  opts.LoadBatchSize,
		categories: domain.DefaultCategories(),
		ready:      make(chan struct{}),
		unloaded:   make(map[string]struct{}),
	}
	s.writer = newWriteScheduler(kv, s.encode, opts.DebounceWindow, opts.WriteRetries, opts.WriterWorkers, logger)
	return s
}

// Open creates a store and loads it.
func Open(ctx context.Context, kv store.KVStore, opts Options) (*Store, error) {
	s := New(kv, opts)
	if err := s.Load(ctx); err != nil {
		_ = s.writer.Close(context.Background())
		return nil, err
	}
	return s, nil
}

// Load reads folders, categories and session history synchronously and
// starts streaming flashcards in the background. Missing keys yield the
// defaults; unreadable or corrupt keys are logged and also yield the
// defaults. Ready is closed once every flashcard has been appended.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loadStarted {
		s.mu.Unlock()
		return ErrAlreadyLoaded
	}
	s.loadStarted = true
	s.loading = true
	s.cascades = newLoadCascades()
	s.mu.Unlock()

	var (
		folders    []domain.Folder
		categories []string
		sessions   []domain.StudySession
	)
	var unreadable []string
	if ok, readable := s.readJSON(ctx, store.KeyFolders, &folders); !ok {
		folders = nil
		if !readable {
			unreadable = append(unreadable, store.KeyFolders)
		}
	}
	if ok, readable := s.readJSON(ctx, store.KeyCategories, &categories); !ok || categories == nil {
		categories = domain.DefaultCategories()
		if !readable {
			unreadable = append(unreadable, store.KeyCategories)
		}
	}
	if ok, readable := s.readJSON(ctx, store.KeySessions, &sessions); !ok {
		sessions = nil
		if !readable {
			unreadable = append(unreadable, store.KeySessions)
		}
	}
	raw, readable := s.readRaw(ctx, store.KeyFlashcards)
	if !readable {
		unreadable = append(unreadable, store.KeyFlashcards)
	}

	s.mu.Lock()
	for _, key := range unreadable {
		s.unloaded[key] = struct{}{}
	}
	s.folders = folders
	s.categories = dedupeCategories(categories)
	s.sessions = sessions
	s.mu.Unlock()

	s.logger.Info("loaded card store metadata",
		slog.Int("folders", len(folders)),
		slog.Int("categories", len(categories)),
		slog.Int("sessions", len(sessions)),
		slog.Int("flashcard_bytes", len(raw)))

	go s.streamFlashcards(ctx, raw)
	return nil
}

// Ready returns a channel closed once the progressive load has finished.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until loading has finished or ctx ends.
func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Loading reports whether flashcards are still being streamed in.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LoadIncomplete reports whether some stored value could not be read in
// full, for example because loading was cancelled. Changes to such keys
// are kept in memory and never written back.
func (s *Store) LoadIncomplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.unloaded) > 0
}

// Flush writes every pending key immediately.
func (s *Store) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

// Close waits for loading to finish, flushes pending writes and stops the
// writer. Mutations after Close stay in memory only.
func (s *Store) Close(ctx context.Context) error {
	s.mu.RLock()
	started := s.loadStarted
	s.mu.RUnlock()
	if started {
		if err := s.Wait(ctx); err != nil {
			s.logger.Warn("closing before flashcards finished loading",
				slog.String("error", err.Error()))
		}
	}
	return s.writer.Close(ctx)
}

// schedule queues debounced writes for keys.
func (s *Store) schedule(keys ...string) {
	if len(keys) == 0 {
		return
	}
	s.writer.Schedule(keys...)
}

// encode renders the current value of key under the read lock.
func (s *Store) encode(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if key == store.KeyFlashcards && s.loading {
		return nil, errDeferred
	}
	if _, ok := s.unloaded[key]; ok {
		return nil, fmt.Errorf("encode %s: %w", key, ErrLoadIncomplete)
	}

	switch key {
	case store.KeyFlashcards:
		return marshalList(s.flashcards)
	case store.KeyFolders:
		return marshalList(s.folders)
	case store.KeyCategories:
		return marshalList(s.categories)
	case store.KeySessions:
		return marshalList(s.sessions)
	default:
		return nil, fmt.Errorf("encode %q: %w", key, store.ErrKeyNotFound)
	}
}

// marshalList encodes a nil slice as [] rather than null.
func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

// readRaw returns the stored bytes for key, or nil if absent or
// unreadable. readable is false only when the read itself failed.
func (s *Store) readRaw(ctx context.Context, key string) (data []byte, readable bool) {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if store.IsNotFoundError(err) {
			s.logger.Debug("key not stored yet, using defaults", slog.String("key", key))
			return nil, true
		}
		s.logger.Error("failed to read key, using defaults",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, false
	}
	return data, true
}

// readJSON decodes key into dst. ok is false when the key is absent,
// unreadable or corrupt; dst is then left in an unspecified state.
// readable is false only when the read itself failed.
func (s *Store) readJSON(ctx context.Context, key string, dst any) (ok, readable bool) {
	data, readable := s.readRaw(ctx, key)
	if data == nil {
		return false, readable
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Error("corrupt stored value, using defaults",
			slog.String("key", key),
			slog.String("error", errors.Join(store.ErrCorrupt, err).Error()))
		return false, true
	}
	return true, true
}

func dedupeCategories(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = domain.NormalizeCategory(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
