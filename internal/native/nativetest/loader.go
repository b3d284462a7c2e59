// Package nativetest provides a fake module loader for tests that
// exercise bootstrap flows without real shared libraries.
package nativetest

import (
	"os"
	"sync"

	"github.com/vcxkit/agent/internal/native"
)

// FakeLoader serves handles from an in-memory module table. Modules
// absent from the table fail with ModuleNotFoundError; present modules
// missing a requested symbol fail with SymbolBindingError, mirroring
// the real loader's verification.
type FakeLoader struct {
	mu      sync.Mutex
	modules map[string]map[string]native.Callable
	loads   []string
}

// NewFakeLoader creates an empty loader.
func NewFakeLoader() *FakeLoader {
	return &FakeLoader{modules: make(map[string]map[string]native.Callable)}
}

// Register makes a module loadable with the given operations.
func (f *FakeLoader) Register(logicalName string, ops map[string]native.Callable) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modules[logicalName] = ops
}

// Loads returns the logical names requested so far, in order.
func (f *FakeLoader) Loads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.loads...)
}

// LoadCount returns how many times the named module was requested.
func (f *FakeLoader) LoadCount(logicalName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, name := range f.loads {
		if name == logicalName {
			n++
		}
	}
	return n
}

func (f *FakeLoader) Load(logicalName string, symbols []native.Symbol) (*native.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loads = append(f.loads, logicalName)

	ops, ok := f.modules[logicalName]
	if !ok {
		return nil, &native.ModuleNotFoundError{
			Module: logicalName,
			Path:   "/usr/lib/" + logicalName + ".so",
			Err:    os.ErrNotExist,
		}
	}

	bound := make(map[string]native.Callable, len(symbols))
	for _, sym := range symbols {
		fn, ok := ops[sym.Name]
		if !ok {
			return nil, &native.SymbolBindingError{Module: logicalName, Symbol: sym.Name}
		}
		bound[sym.Name] = fn
	}

	return native.NewHandle(logicalName, bound), nil
}

// OK is a Callable that succeeds with an empty result.
func OK(string) (string, error) {
	return "", nil
}

// Fail returns a Callable that always fails with err.
func Fail(err error) native.Callable {
	return func(string) (string, error) {
		return "", err
	}
}
