//go:build linux || darwin || freebsd

package native

import (
	"fmt"

	"github.com/ebitengine/purego"
)

func dlopen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func dlsym(lib uintptr, name string) (uintptr, error) {
	return purego.Dlsym(lib, name)
}

// bindSymbol wraps a resolved symbol address as a Callable matching
// the symbol's declared kind. Native entry points signal failure
// through a non-zero status code, except exchange entries which
// return a NULL result.
func bindSymbol(sym Symbol, addr uintptr) (Callable, error) {
	switch sym.Kind {
	case KindInit:
		var fn func() uint32
		purego.RegisterFunc(&fn, addr)
		return func(string) (string, error) {
			if code := fn(); code != 0 {
				return "", &CallError{Symbol: sym.Name, Code: code}
			}
			return "", nil
		}, nil
	case KindConfigure:
		var fn func(string) uint32
		purego.RegisterFunc(&fn, addr)
		return func(arg string) (string, error) {
			if code := fn(arg); code != 0 {
				return "", &CallError{Symbol: sym.Name, Code: code}
			}
			return "", nil
		}, nil
	case KindExchange:
		var fn func(string) string
		purego.RegisterFunc(&fn, addr)
		return func(arg string) (string, error) {
			out := fn(arg)
			if out == "" {
				return "", fmt.Errorf("%s returned no result", sym.Name)
			}
			return out, nil
		}, nil
	}
	return nil, fmt.Errorf("unknown symbol kind %d", sym.Kind)
}
