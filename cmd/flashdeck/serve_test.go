package main

import (
	"context"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/flashdeck/internal/config"
	"github.com/phrazzld/flashdeck/internal/platform/filekv"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(driver, path string) *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Log:     config.LogConfig{Level: "debug"},
		Storage: config.StorageConfig{Driver: driver, Path: path},
		Store: config.StoreConfig{
			// Long enough that only the shutdown flush can persist.
			DebounceWindow: time.Hour,
			LoadBatchSize:  20,
			WriteRetries:   0,
			WriterWorkers:  1,
		},
		Study: config.StudyConfig{Seed: 1},
	}
}

func TestServeFlushesOnShutdown(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	log, logBuf := logger.GetTestLogger(t)

	app, err := newApplication(context.Background(), testConfig(config.DriverFile, dir), log)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln) }()

	resp, err := http.Get(base + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(base+"/api/flashcards", "application/json",
		strings.NewReader(`{"front":"Capital of Peru","back":"Lima","category":"history"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	logger.AssertLogContains(t, logBuf, "server shutdown completed")

	kv, err := filekv.Open(dir)
	require.NoError(t, err)
	defer kv.Close()

	raw, err := kv.Get(context.Background(), store.KeyFlashcards)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Capital of Peru")
}

func TestNewApplicationDrivers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		driver string
		path   func(t *testing.T) string
	}{
		{"memory", config.DriverMemory, func(*testing.T) string { return "" }},
		{"file", config.DriverFile, func(t *testing.T) string { return t.TempDir() }},
		{"sqlite", config.DriverSQLite, func(t *testing.T) string { return t.TempDir() + "/cards.db" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			log, _ := logger.GetTestLogger(t)

			app, err := newApplication(context.Background(), testConfig(tt.driver, tt.path(t)), log)
			require.NoError(t, err)

			require.NoError(t, app.cards.Wait(context.Background()))
			assert.Equal(t, []string{"general", "language", "science", "math", "history"}, app.cards.Categories())
			assert.NoError(t, app.cleanup(context.Background()))
		})
	}
}
