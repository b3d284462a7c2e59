// Package plugin initializes optional native backends (wallet storage,
// payments) that the credential runtime discovers at startup.
package plugin

import (
	"fmt"
	"log/slog"

	"github.com/vcxkit/agent/internal/native"
)

// Plugin describes a native backend: the shared library it lives in
// and its single zero-argument init entry point.
type Plugin struct {
	Name       string
	Module     string
	InitSymbol string
}

var (
	// Storage is the postgres wallet storage backend.
	Storage = Plugin{
		Name:       "storage",
		Module:     "libindystrgpostgres",
		InitSymbol: "postgresstorage_init",
	}

	// Payment is the null payment backend.
	Payment = Plugin{
		Name:       "payment",
		Module:     "libnullpay",
		InitSymbol: "nullpay_init",
	}
)

// InitError reports a failed plugin initialization with the plugin's
// identity attached.
type InitError struct {
	Plugin string
	Err    error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init plugin %s: %v", e.Plugin, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// Init loads the plugin's module and invokes its init entry point.
// The native init call is not idempotent; callers enforce at-most-once
// per process.
func Init(loader native.Loader, p Plugin, logger *slog.Logger) error {
	h, err := loader.Load(p.Module, []native.Symbol{
		{Name: p.InitSymbol, Kind: native.KindInit},
	})
	if err != nil {
		return &InitError{Plugin: p.Name, Err: err}
	}

	if _, err := h.Call(p.InitSymbol, ""); err != nil {
		return &InitError{Plugin: p.Name, Err: err}
	}

	logger.Info("plugin initialized", "plugin", p.Name, "module", p.Module)
	return nil
}
