package native

import "fmt"

// ModuleNotFoundError reports that a native module is absent at its
// resolved path or is not a loadable binary.
type ModuleNotFoundError struct {
	Module string
	Path   string
	Err    error
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("native module %s not found at %s: %v", e.Module, e.Path, e.Err)
}

func (e *ModuleNotFoundError) Unwrap() error {
	return e.Err
}

// SymbolBindingError reports that a loaded module lacks an expected
// entry point or that the entry point could not be bound with the
// expected shape.
type SymbolBindingError struct {
	Module string
	Symbol string
	Err    error
}

func (e *SymbolBindingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("native module %s: bind symbol %s: %v", e.Module, e.Symbol, e.Err)
	}
	return fmt.Sprintf("native module %s: bind symbol %s: symbol not bound", e.Module, e.Symbol)
}

func (e *SymbolBindingError) Unwrap() error {
	return e.Err
}

// CallError reports a non-zero status code returned by a native entry
// point.
type CallError struct {
	Symbol string
	Code   uint32
}

func (e *CallError) Error() string {
	return fmt.Sprintf("native call %s returned code %d", e.Symbol, e.Code)
}
