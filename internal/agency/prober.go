// Package agency talks to the remote agency: readiness probing before
// provisioning, and the unauthenticated details endpoint.
package agency

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultProbeInterval is the fixed backoff between readiness probes.
const DefaultProbeInterval = 1000 * time.Millisecond

// Doer issues a single HTTP request. The prober deliberately takes a
// non-retrying client: each failure must surface here so the backoff
// cadence stays exact.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Prober polls the agency health endpoint until it answers without a
// transport or HTTP error.
type Prober struct {
	client   Doer
	interval time.Duration
	logger   *slog.Logger
}

// NewProber creates a prober. A nil client falls back to a plain HTTP
// client; a non-positive interval falls back to DefaultProbeInterval.
func NewProber(client Doer, interval time.Duration, logger *slog.Logger) *Prober {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Prober{client: client, interval: interval, logger: logger}
}

// AwaitReady blocks until the agency health check succeeds. There is
// no attempt limit: a permanently unreachable agency blocks forever,
// tolerating slow-starting services in orchestrated environments.
// Cancelling ctx is the only external bound; its error is returned.
func (p *Prober) AwaitReady(ctx context.Context, endpoint string) error {
	url := strings.TrimSuffix(endpoint, "/") + "/agency"

	for attempt := 1; ; attempt++ {
		err := p.probe(ctx, url)
		if err == nil {
			p.logger.Info("agency ready", "endpoint", endpoint, "attempts", attempt)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		p.logger.Warn("agency not ready",
			"endpoint", endpoint,
			"attempt", attempt,
			"err", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.interval):
		}
	}
}

func (p *Prober) probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("agency returned status %d", resp.StatusCode)
	}
	return nil
}
