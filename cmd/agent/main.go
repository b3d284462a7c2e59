package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vcxkit/agent/internal/bootstrap"
	"github.com/vcxkit/agent/internal/config"
	"github.com/vcxkit/agent/internal/domain"
	"github.com/vcxkit/agent/internal/native"
	"github.com/vcxkit/agent/internal/store"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := config.NewLogger(cfg, "agent")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting agent bootstrap",
		"version", config.Version,
		"build_time", config.BuildTime,
		"agency", cfg.AgencyURL,
		"debug", cfg.Debug,
	)

	// Create context with signal handling so a stuck readiness wait
	// can be interrupted
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM,
	)
	defer cancel()

	st, err := store.New(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open data dir", "err", err)
		os.Exit(1)
	}

	loader := native.NewDLLoader(cfg.LibraryDir, logger)
	b := bootstrap.New(cfg, logger, loader)

	// Reuse a previously provisioned configuration if one exists;
	// provisioning registers a new agent with the agency otherwise.
	agentConfig, err := st.AgentConfig()
	if err != nil {
		logger.Warn("failed to read saved agent config", "err", err)
	}

	if agentConfig == nil {
		provisionConfig, err := loadProvisionConfig(cfg, st)
		if err != nil {
			logger.Error("failed to build provision config", "err", err)
			os.Exit(1)
		}

		agentConfig, err = b.Provision(ctx, provisionConfig)
		if err != nil {
			logger.Error("provisioning failed", "err", err)
			os.Exit(1)
		}

		if err := st.SaveAgentConfig(agentConfig); err != nil {
			logger.Warn("failed to save agent config", "err", err)
		}
	} else {
		logger.Info("reusing saved agent config")
	}

	if err := b.InitRuntime(agentConfig); err != nil {
		logger.Error("runtime initialization failed", "err", err)
		os.Exit(1)
	}

	logger.Info("agent runtime initialized", "config_keys", len(agentConfig))
}

// loadProvisionConfig reads the provisioning payload from the
// configured file, or composes a minimal one with the agency URL and
// the persisted wallet key.
func loadProvisionConfig(cfg *config.Config, st *store.Store) (domain.ProvisionConfig, error) {
	if cfg.ProvisionPath != "" {
		data, err := os.ReadFile(cfg.ProvisionPath)
		if err != nil {
			return nil, fmt.Errorf("read provision config %s: %w", cfg.ProvisionPath, err)
		}
		var pc domain.ProvisionConfig
		if err := json.Unmarshal(data, &pc); err != nil {
			return nil, fmt.Errorf("parse provision config: %w", err)
		}
		if pc["agency_url"] == "" {
			pc["agency_url"] = cfg.AgencyURL
		}
		return pc, nil
	}

	walletKey, err := st.WalletKey()
	if err != nil {
		return nil, fmt.Errorf("wallet key: %w", err)
	}

	return domain.ProvisionConfig{
		"agency_url":  cfg.AgencyURL,
		"wallet_name": "vcxagent",
		"wallet_key":  walletKey,
	}, nil
}
