package cardstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/flashdeck/internal/store"
	"github.com/phrazzld/flashdeck/internal/task"
)

// taskTypePersist is the task type of a durable write.
const taskTypePersist = "persist_key"

// errDeferred is returned by an encoder that cannot produce a complete
// value yet. The write is rescheduled instead of performed.
var errDeferred = errors.New("write deferred")

// encodeFunc renders the current in-memory value of key.
type encodeFunc func(key string) ([]byte, error)

// pendingWrite is the single armed timer for one key. gen identifies the
// timer so that a superseded callback that could not be stopped in time
// recognizes itself and does nothing.
type pendingWrite struct {
	timer *time.Timer
	gen   uint64
}

// writeScheduler coalesces writes per key. Scheduling a key (re)arms one
// timer for it; when the timer fires the current value is encoded and
// written by the worker pool. Many mutations inside one window therefore
// produce one write carrying the final state.
type writeScheduler struct {
	kv      store.KVStore
	encode  encodeFunc
	window  time.Duration
	retries int
	logger  *slog.Logger

	queue *task.TaskQueue
	pool  *task.WorkerPool

	mu      sync.Mutex
	pending map[string]pendingWrite
	gen     uint64
	closed  bool
	// writing serializes writes of one key across workers.
	writing map[string]*sync.Mutex
}

func newWriteScheduler(
	kv store.KVStore,
	encode encodeFunc,
	window time.Duration,
	retries int,
	workers int,
	logger *slog.Logger,
) *writeScheduler {
	queue := task.NewTaskQueue(64, logger)
	pool := task.NewWorkerPool(queue, task.WorkerPoolConfig{WorkerCount: workers}, logger)
	pool.SetErrorHandler(func(t task.Task, err error) {
		logger.Error("durable write failed, in-memory state kept",
			slog.String("task_id", t.ID().String()),
			slog.String("error", err.Error()))
	})
	pool.Start()

	return &writeScheduler{
		kv:      kv,
		encode:  encode,
		window:  window,
		retries: retries,
		logger:  logger,
		queue:   queue,
		pool:    pool,
		pending: make(map[string]pendingWrite),
		writing: make(map[string]*sync.Mutex),
	}
}

// Schedule arms (or re-arms) the debounce timer for each key.
func (w *writeScheduler) Schedule(keys ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		w.logger.Warn("write scheduled after close, change will not be persisted",
			slog.Any("keys", keys))
		return
	}

	for _, key := range keys {
		if prev, ok := w.pending[key]; ok {
			prev.timer.Stop()
		}
		w.gen++
		gen := w.gen
		key := key
		w.pending[key] = pendingWrite{
			gen:   gen,
			timer: time.AfterFunc(w.window, func() { w.fire(key, gen) }),
		}
	}
}

// Pending reports whether a write for key is waiting for its timer.
func (w *writeScheduler) Pending(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.pending[key]
	return ok
}

func (w *writeScheduler) fire(key string, gen uint64) {
	w.mu.Lock()
	current, ok := w.pending[key]
	if !ok || current.gen != gen {
		w.mu.Unlock()
		return
	}
	delete(w.pending, key)
	closed := w.closed
	w.mu.Unlock()

	if closed {
		return
	}

	if err := w.queue.Enqueue(w.newWriteTask(key, nil)); err != nil {
		w.logger.Warn("could not enqueue write, retrying after window",
			slog.String("key", key),
			slog.String("error", err.Error()))
		if !errors.Is(err, task.ErrQueueClosed) {
			w.Schedule(key)
		}
	}
}

// Flush cancels every armed timer and writes those keys now, waiting for
// the writes to finish or ctx to end.
func (w *writeScheduler) Flush(ctx context.Context) error {
	w.mu.Lock()
	keys := make([]string, 0, len(w.pending))
	for key, p := range w.pending {
		p.timer.Stop()
		keys = append(keys, key)
	}
	w.pending = make(map[string]pendingWrite)
	w.mu.Unlock()

	if len(keys) == 0 {
		return nil
	}

	results := make(chan error, len(keys))
	for _, key := range keys {
		if err := w.queue.Enqueue(w.newWriteTask(key, results)); err != nil {
			results <- fmt.Errorf("enqueue %s: %w", key, err)
		}
	}

	var errs []error
	for range keys {
		select {
		case err := <-results:
			if err != nil {
				errs = append(errs, err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return errors.Join(errs...)
}

// Close flushes, then stops accepting work and waits for the workers.
func (w *writeScheduler) Close(ctx context.Context) error {
	flushErr := w.Flush(ctx)

	w.mu.Lock()
	w.closed = true
	for _, p := range w.pending {
		p.timer.Stop()
	}
	w.pending = nil
	w.mu.Unlock()

	w.queue.Close()
	return errors.Join(flushErr, w.pool.Wait(ctx))
}

// newWriteTask builds the task that encodes and stores key. done, if not
// nil, receives the outcome.
func (w *writeScheduler) newWriteTask(key string, done chan<- error) task.Task {
	return task.NewFunc(taskTypePersist, func(ctx context.Context) error {
		err := w.write(ctx, key)
		if errors.Is(err, errDeferred) {
			w.logger.Debug("write deferred until loading completes", slog.String("key", key))
			w.Schedule(key)
			err = nil
		}
		if done != nil {
			done <- err
		}
		return err
	})
}

func (w *writeScheduler) keyLock(key string) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	l, ok := w.writing[key]
	if !ok {
		l = &sync.Mutex{}
		w.writing[key] = l
	}
	return l
}

// write stores the current value of key. Only one write per key runs at
// a time, and every attempt encodes afresh, so a retry never puts back a
// value older than one already stored.
func (w *writeScheduler) write(ctx context.Context, key string) error {
	l := w.keyLock(key)
	l.Lock()
	defer l.Unlock()

	var lastErr error
	for attempt := 0; attempt <= w.retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 50 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return errors.Join(lastErr, ctx.Err())
			}
		}

		payload, err := w.encode(key)
		if err != nil {
			return err
		}

		lastErr = w.kv.Set(ctx, key, payload)
		if lastErr == nil {
			w.logger.Debug("persisted key",
				slog.String("key", key),
				slog.Int("bytes", len(payload)),
				slog.Int("attempt", attempt+1))
			return nil
		}

		w.logger.Warn("durable write attempt failed",
			slog.String("key", key),
			slog.Int("attempt", attempt+1),
			slog.String("error", lastErr.Error()))
	}

	return fmt.Errorf("persist %s after %d attempts: %w", key, w.retries+1, lastErr)
}
