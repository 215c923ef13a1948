package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/flashdeck/internal/cardstore"
	"github.com/phrazzld/flashdeck/internal/events"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/session"
	"github.com/phrazzld/flashdeck/internal/store"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	handler http.Handler
	store   *cardstore.Store
	logs    *logger.TestLogBuffer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	log, buf := logger.GetTestLogger(t)
	cards, err := cardstore.Open(context.Background(), store.NewMemoryKV(), cardstore.Options{
		DebounceWindow: 10 * time.Millisecond,
		Logger:         log,
	})
	require.NoError(t, err)
	require.NoError(t, cards.Wait(context.Background()))
	t.Cleanup(func() { _ = cards.Close(context.Background()) })

	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(cardstore.NewSessionArchiver(cards))
	engine := session.NewEngine(cards, session.WithLogger(log), session.WithEmitter(emitter), session.WithSeed(1))

	return &testAPI{
		handler: NewRouter(cards, engine, log),
		store:   cards,
		logs:    buf,
	}
}

// do sends a request with an optional JSON body and returns the recorder.
func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}
