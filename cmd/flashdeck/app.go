package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashdeck/internal/cardstore"
	"github.com/phrazzld/flashdeck/internal/config"
	"github.com/phrazzld/flashdeck/internal/events"
	"github.com/phrazzld/flashdeck/internal/platform/filekv"
	"github.com/phrazzld/flashdeck/internal/platform/sqlite"
	"github.com/phrazzld/flashdeck/internal/session"
	"github.com/phrazzld/flashdeck/internal/store"
)

// ErrUnknownDriver is returned for a storage driver without a backend.
var ErrUnknownDriver = errors.New("unknown storage driver")

// application holds the shared dependencies of every command and owns
// their shutdown order.
type application struct {
	config *config.Config
	logger *slog.Logger

	kv      store.KVStore
	cards   *cardstore.Store
	emitter *events.InMemoryEventEmitter
	engine  *session.Engine
}

// newApplication opens the configured backend, starts loading the card
// store and wires the study engine to it. Completed sessions reach the
// store through the event emitter.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	kv, err := openKV(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	cards, err := cardstore.Open(ctx, kv, cardstore.Options{
		DebounceWindow: cfg.Store.DebounceWindow,
		LoadBatchSize:  cfg.Store.LoadBatchSize,
		WriteRetries:   cfg.Store.WriteRetries,
		WriterWorkers:  cfg.Store.WriterWorkers,
		Logger:         logger,
	})
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("failed to open card store: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.Subscribe(events.TypeSessionCompleted, cardstore.NewSessionArchiver(cards))

	engineOpts := []session.Option{
		session.WithEmitter(emitter),
		session.WithLogger(logger),
	}
	if cfg.Study.Seed != 0 {
		engineOpts = append(engineOpts, session.WithSeed(cfg.Study.Seed))
	}

	logger.Debug("application initialized",
		"storage_driver", cfg.Storage.Driver,
		"seeded", cfg.Study.Seed != 0)

	return &application{
		config:  cfg,
		logger:  logger,
		kv:      kv,
		cards:   cards,
		emitter: emitter,
		engine:  session.NewEngine(cards, engineOpts...),
	}, nil
}

func openKV(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (store.KVStore, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		kv, err := sqlite.Open(ctx, cfg.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return kv, nil
	case config.DriverFile:
		kv, err := filekv.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		return kv, nil
	case config.DriverMemory:
		return store.NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// cleanup flushes pending writes before the backend is closed.
func (app *application) cleanup(ctx context.Context) error {
	var errs []error

	if err := app.cards.Close(ctx); err != nil {
		app.logger.Error("failed to flush card store", "error", err)
		errs = append(errs, fmt.Errorf("failed to flush card store: %w", err))
	}
	if err := app.kv.Close(); err != nil {
		app.logger.Error("failed to close storage", "error", err)
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}

	return errors.Join(errs...)
}
