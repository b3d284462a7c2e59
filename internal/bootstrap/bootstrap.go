// Package bootstrap brings the native credential runtime into an
// operable state: plugin initialization, native logger setup, agency
// readiness and agent provisioning, in that order.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vcxkit/agent/internal/agency"
	"github.com/vcxkit/agent/internal/config"
	"github.com/vcxkit/agent/internal/domain"
	"github.com/vcxkit/agent/internal/native"
	"github.com/vcxkit/agent/internal/plugin"
	"github.com/vcxkit/agent/internal/vcx"
)

// Bootstrap orchestrates the startup sequence. Plugin initialization
// and the native logger call are not idempotent at the native layer,
// so Bootstrap owns at-most-once guards for both: repeated Provision
// calls skip the already-completed steps, which lets provisioning be
// retried without re-initializing natives. A mutex serializes
// concurrent calls.
type Bootstrap struct {
	cfg    *config.Config
	logger *slog.Logger
	loader native.Loader
	prober *agency.Prober
	client *agency.Client

	mu          sync.Mutex
	pluginsDone map[string]bool
	loggerDone  bool
	rt          *vcx.Runtime
}

// New wires a Bootstrap over the given module loader.
func New(cfg *config.Config, logger *slog.Logger, loader native.Loader) *Bootstrap {
	return &Bootstrap{
		cfg:         cfg,
		logger:      logger,
		loader:      loader,
		prober:      agency.NewProber(nil, cfg.ProbeInterval, logger),
		client:      agency.NewClient(cfg.AgencyURL, logger),
		pluginsDone: make(map[string]bool),
	}
}

// Provision runs the startup sequence and returns the agent
// configuration the agency produced, unmodified. Each step's failure
// aborts the remaining steps; only the readiness probe retries
// internally. Cancelling ctx bounds the otherwise unbounded wait for
// agency readiness.
func (b *Bootstrap) Provision(ctx context.Context, provisionConfig domain.ProvisionConfig) (domain.AgentConfig, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.initPlugins(); err != nil {
		return nil, err
	}
	if err := b.initNativeLogger(); err != nil {
		return nil, err
	}

	b.logger.Info("waiting for agency", "endpoint", b.cfg.AgencyURL)
	if err := b.prober.AwaitReady(ctx, b.cfg.AgencyURL); err != nil {
		return nil, fmt.Errorf("await agency: %w", err)
	}

	if details, err := b.client.Details(ctx); err != nil {
		b.logger.Warn("failed to fetch agency details", "err", err)
	} else {
		b.logger.Info("agency identity", "did", details.DID, "verkey", details.VerKey)
	}

	agentConfig, err := b.rt.ProvisionAgent(provisionConfig)
	if err != nil {
		return nil, err
	}

	b.logger.Info("agent provisioned", "endpoint", b.cfg.AgencyURL)
	return agentConfig, nil
}

// InitRuntime initializes the runtime with a provisioned agent
// configuration. Kept separate from Provision so callers can retry
// runtime initialization on its own, e.g. with a configuration
// restored from disk. Plugins and the native logger are brought up
// first if a direct Provision call hasn't done so already.
func (b *Bootstrap) InitRuntime(agentConfig domain.AgentConfig) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.initPlugins(); err != nil {
		return err
	}
	if err := b.initNativeLogger(); err != nil {
		return err
	}

	return b.rt.InitWithConfig(agentConfig)
}

// Shutdown releases the native runtime state if it was opened.
func (b *Bootstrap) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rt == nil {
		return nil
	}
	return b.rt.Shutdown()
}

// initPlugins initializes the storage plugin when one is configured
// and the payment plugin unconditionally, in that order. Each plugin
// is guarded individually so a failed payment init does not re-run an
// already-initialized storage plugin on retry.
func (b *Bootstrap) initPlugins() error {
	var plugins []plugin.Plugin
	if b.cfg.WalletStorage != "" {
		plugins = append(plugins, plugin.Storage)
	}
	plugins = append(plugins, plugin.Payment)

	for _, p := range plugins {
		if b.pluginsDone[p.Name] {
			b.logger.Debug("plugin already initialized", "plugin", p.Name)
			continue
		}
		if err := plugin.Init(b.loader, p, b.logger); err != nil {
			return err
		}
		b.pluginsDone[p.Name] = true
	}
	return nil
}

// initNativeLogger opens the core module and sets its default logger
// exactly once per process.
func (b *Bootstrap) initNativeLogger() error {
	if b.loggerDone {
		return nil
	}

	if b.rt == nil {
		rt, err := vcx.Open(b.loader, b.logger)
		if err != nil {
			return err
		}
		b.rt = rt
	}

	if err := b.rt.SetDefaultLogger(b.cfg.LogLevel); err != nil {
		return err
	}
	b.loggerDone = true
	return nil
}
