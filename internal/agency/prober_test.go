package agency

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler captures slog records so tests can count warnings.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordingHandler) warnings() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == slog.LevelWarn {
			n++
		}
	}
	return n
}

func TestAwaitReady_ImmediateSuccess(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/agency", r.URL.Path)
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	h := &recordingHandler{}
	p := NewProber(nil, 5*time.Millisecond, slog.New(h))

	err := p.AwaitReady(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, 1, hits)
	assert.Equal(t, 0, h.warnings())
}

func TestAwaitReady_BacksOffOncePerFailure(t *testing.T) {
	var mu sync.Mutex
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		n := hits
		mu.Unlock()
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	interval := 20 * time.Millisecond
	h := &recordingHandler{}
	p := NewProber(nil, interval, slog.New(h))

	start := time.Now()
	err := p.AwaitReady(context.Background(), srv.URL)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 3, hits)
	assert.Equal(t, 2, h.warnings())
	assert.GreaterOrEqual(t, elapsed, 2*interval)
}

func TestAwaitReady_TransportErrorRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	// Close immediately: the endpoint refuses connections for the whole test.
	url := srv.URL
	srv.Close()

	h := &recordingHandler{}
	p := NewProber(nil, 10*time.Millisecond, slog.New(h))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err := p.AwaitReady(ctx, url)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, h.warnings(), 1)
}

func TestAwaitReady_NeverReturnsWithoutExternalBound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	h := &recordingHandler{}
	p := NewProber(nil, 5*time.Millisecond, slog.New(h))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.AwaitReady(ctx, srv.URL)
	}()

	select {
	case err := <-done:
		t.Fatalf("prober returned %v against a permanently failing agency", err)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
