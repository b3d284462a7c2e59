package native

import (
	"log/slog"
	"os"

	"github.com/vcxkit/agent/internal/platform"
)

// DLLoader loads modules from shared libraries on disk, resolving
// their paths through the platform table. An empty dir uses the
// platform's default library directory.
type DLLoader struct {
	dir    string
	logger *slog.Logger
}

// NewDLLoader creates a loader. dir overrides the platform's default
// library directory when non-empty and must end with a path separator.
func NewDLLoader(dir string, logger *slog.Logger) *DLLoader {
	return &DLLoader{dir: dir, logger: logger}
}

// Load resolves the library path, opens the library and binds every
// requested symbol. The whole symbol set is verified before the
// handle is returned.
func (l *DLLoader) Load(logicalName string, symbols []Symbol) (*Handle, error) {
	desc := platform.Current()
	if l.dir != "" {
		desc.Dir = l.dir
	}
	path := desc.LibraryPath(logicalName)

	if _, err := os.Stat(path); err != nil {
		return nil, &ModuleNotFoundError{Module: logicalName, Path: path, Err: err}
	}

	lib, err := dlopen(path)
	if err != nil {
		return nil, &ModuleNotFoundError{Module: logicalName, Path: path, Err: err}
	}

	ops := make(map[string]Callable, len(symbols))
	for _, sym := range symbols {
		addr, err := dlsym(lib, sym.Name)
		if err != nil {
			return nil, &SymbolBindingError{Module: logicalName, Symbol: sym.Name, Err: err}
		}
		fn, err := bindSymbol(sym, addr)
		if err != nil {
			return nil, &SymbolBindingError{Module: logicalName, Symbol: sym.Name, Err: err}
		}
		ops[sym.Name] = fn
	}

	l.logger.Debug("native module loaded",
		"module", logicalName,
		"path", path,
		"symbols", len(ops),
	)

	return NewHandle(logicalName, ops), nil
}
