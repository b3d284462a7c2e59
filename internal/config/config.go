package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/vcxkit/agent/internal/domain"
)

// Build-time variables injected via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Config holds all agent configuration loaded from environment variables.
type Config struct {
	// AgencyURL is the base URL of the provisioning agency.
	AgencyURL string

	// LogLevel is the severity passed to the native runtime logger.
	LogLevel domain.LogLevel

	// LibraryDir overrides the platform's default native library
	// directory. Must end with a path separator when set.
	LibraryDir string

	// DataDir is the root directory for persistent agent data.
	DataDir string

	// LogDir is the directory for log files. Empty logs to stderr.
	LogDir string

	// WalletStorage selects the wallet storage plugin ("postgres").
	// Empty disables the storage plugin; the default wallet is used.
	WalletStorage string

	// ProvisionPath is an optional JSON file holding the provisioning
	// payload. When empty a minimal payload is composed at startup.
	ProvisionPath string

	// ProbeInterval is the fixed backoff between agency readiness
	// probes.
	ProbeInterval time.Duration

	// Debug enables verbose logging.
	Debug bool
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      domain.LogInfo,
		DataDir:       "/var/lib/vcxagent",
		ProbeInterval: 1 * time.Second,
	}
}

// Load reads configuration from environment variables, applying
// defaults for anything not explicitly set. Returns an error if
// required values are missing or malformed.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	cfg.AgencyURL = os.Getenv("VCX_AGENCY_URL")
	if cfg.AgencyURL == "" {
		return nil, fmt.Errorf("VCX_AGENCY_URL is required")
	}

	if v := os.Getenv("VCX_LOG_LEVEL"); v != "" {
		level, err := domain.ParseLogLevel(v)
		if err != nil {
			return nil, fmt.Errorf("VCX_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	if v := os.Getenv("VCX_LIBRARY_DIR"); v != "" {
		cfg.LibraryDir = v
	}

	if v := os.Getenv("VCX_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	if v := os.Getenv("VCX_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}

	if v := os.Getenv("VCX_WALLET_STORAGE"); v != "" {
		if v != "postgres" {
			return nil, fmt.Errorf("VCX_WALLET_STORAGE must be \"postgres\" or unset, got %q", v)
		}
		cfg.WalletStorage = v
	}

	if v := os.Getenv("VCX_PROVISION_CONFIG"); v != "" {
		cfg.ProvisionPath = v
	}

	if v := os.Getenv("VCX_PROBE_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("VCX_PROBE_INTERVAL: %w", err)
		}
		if interval <= 0 {
			return nil, fmt.Errorf("VCX_PROBE_INTERVAL must be positive")
		}
		cfg.ProbeInterval = interval
	}

	cfg.Debug = os.Getenv("VCX_AGENT_DEBUG") == "true"

	return cfg, nil
}

// NewLogger creates a structured logger. It writes JSON to a file
// under LogDir when one is configured, stderr otherwise.
func NewLogger(cfg *Config, name string) (*slog.Logger, error) {
	level := cfg.LogLevel.Slog()
	if cfg.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogDir == "" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	logPath := cfg.LogDir + "/" + name + ".log"
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", logPath, err)
	}

	return slog.New(slog.NewJSONHandler(file, opts)), nil
}
