// Package vcx binds the core credential runtime module and exposes its
// logger, provisioning and initialization entry points.
package vcx

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vcxkit/agent/internal/domain"
	"github.com/vcxkit/agent/internal/native"
)

// CoreModule is the logical name of the core runtime library.
const CoreModule = "libvcx"

const (
	symSetDefaultLogger = "vcx_set_default_logger"
	symProvisionAgent   = "vcx_provision_agent"
	symInitWithConfig   = "vcx_init_with_config"
	symShutdown         = "vcx_shutdown"
)

// Symbols is the full entry point set bound from the core module.
func Symbols() []native.Symbol {
	return []native.Symbol{
		{Name: symSetDefaultLogger, Kind: native.KindConfigure},
		{Name: symProvisionAgent, Kind: native.KindExchange},
		{Name: symInitWithConfig, Kind: native.KindConfigure},
		{Name: symShutdown, Kind: native.KindInit},
	}
}

// Runtime is a handle to the core runtime module. It is owned by the
// bootstrap orchestrator; nothing here guards against concurrent or
// repeated native calls.
type Runtime struct {
	handle *native.Handle
	logger *slog.Logger
}

// Open loads the core module and verifies its entry point set.
func Open(loader native.Loader, logger *slog.Logger) (*Runtime, error) {
	h, err := loader.Load(CoreModule, Symbols())
	if err != nil {
		return nil, fmt.Errorf("load core module: %w", err)
	}
	return &Runtime{handle: h, logger: logger}, nil
}

// SetDefaultLogger configures the runtime's logging level. The native
// call must happen at most once per process; the caller guards that.
func (r *Runtime) SetDefaultLogger(level domain.LogLevel) error {
	if _, err := r.handle.Call(symSetDefaultLogger, string(level)); err != nil {
		return fmt.Errorf("set default logger: %w", err)
	}
	r.logger.Debug("native logger configured", "level", level)
	return nil
}

// ProvisionAgent runs the provisioning exchange against the agency:
// the config is serialized, handed to the runtime, and the resulting
// agent configuration is returned exactly as the agency produced it.
func (r *Runtime) ProvisionAgent(cfg domain.ProvisionConfig) (domain.AgentConfig, error) {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal provision config: %w", err)
	}

	out, err := r.handle.Call(symProvisionAgent, string(payload))
	if err != nil {
		return nil, &ProvisioningError{Err: err}
	}

	var agent domain.AgentConfig
	if err := json.Unmarshal([]byte(out), &agent); err != nil {
		return nil, &ProvisioningError{Detail: out, Err: err}
	}
	return agent, nil
}

// InitWithConfig initializes the runtime with a provisioned agent
// configuration. Kept separate from provisioning so either can be
// retried on its own.
func (r *Runtime) InitWithConfig(cfg domain.AgentConfig) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal agent config: %w", err)
	}
	if _, err := r.handle.Call(symInitWithConfig, string(payload)); err != nil {
		return fmt.Errorf("init runtime: %w", err)
	}
	return nil
}

// Shutdown releases the runtime's native state.
func (r *Runtime) Shutdown() error {
	if _, err := r.handle.Call(symShutdown, ""); err != nil {
		return fmt.Errorf("shutdown runtime: %w", err)
	}
	return nil
}

// ProvisioningError reports a rejected or failed provisioning
// exchange, carrying the raw response detail when one exists.
type ProvisioningError struct {
	Detail string
	Err    error
}

func (e *ProvisioningError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("provisioning failed: %v (response: %s)", e.Err, e.Detail)
	}
	return fmt.Sprintf("provisioning failed: %v", e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}
