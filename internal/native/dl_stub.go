//go:build !(linux || darwin || freebsd)

package native

import "errors"

// Dynamic loading is only wired for Unix-like systems. Other
// platforms resolve paths through the same table but cannot bind.

var errUnsupported = errors.New("dynamic module loading is not supported on this platform")

func dlopen(string) (uintptr, error) {
	return 0, errUnsupported
}

func dlsym(uintptr, string) (uintptr, error) {
	return 0, errUnsupported
}

func bindSymbol(Symbol, uintptr) (Callable, error) {
	return nil, errUnsupported
}
