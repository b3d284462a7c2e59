// Package store persists agent state across process restarts so a
// host provisions once and re-initializes from disk afterwards.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/vcxkit/agent/internal/domain"
)

const (
	walletKeyFile   = "wallet_key"
	agentConfigFile = "agent_config.json"
)

// Store provides persistent file-based storage for agent state.
type Store struct {
	dataDir string
	mu      sync.RWMutex
}

// New creates a Store rooted at dataDir, ensuring the directory exists.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dataDir, err)
	}
	return &Store{dataDir: dataDir}, nil
}

// WalletKey returns the persisted wallet key, generating one if it
// doesn't exist yet.
func (s *Store) WalletKey() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dataDir, walletKeyFile)
	data, err := os.ReadFile(path)
	if err == nil {
		key := strings.TrimSpace(string(data))
		if key != "" {
			return key, nil
		}
	}

	key := uuid.New().String()
	if err := os.WriteFile(path, []byte(key), 0o600); err != nil {
		return "", fmt.Errorf("write wallet key: %w", err)
	}
	return key, nil
}

// SaveAgentConfig persists the provisioned agent configuration.
func (s *Store) SaveAgentConfig(cfg domain.AgentConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal agent config: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dataDir, agentConfigFile), data, 0o600)
}

// AgentConfig reads the persisted agent configuration. Returns
// (nil, nil) when none has been saved.
func (s *Store) AgentConfig() (domain.AgentConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.dataDir, agentConfigFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read agent config: %w", err)
	}

	var cfg domain.AgentConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse agent config: %w", err)
	}
	return cfg, nil
}

// ClearAgentConfig removes the persisted agent configuration, forcing
// the next run to provision again.
func (s *Store) ClearAgentConfig() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dataDir, agentConfigFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear agent config: %w", err)
	}
	return nil
}
