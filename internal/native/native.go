// Package native loads credential-agent modules (the core runtime and
// its plugins) from platform-specific shared libraries and binds their
// exported entry points behind a capability-typed interface.
package native

// Kind describes the shape of an exported entry point.
type Kind int

const (
	// KindInit is a zero-argument initialization entry returning a
	// native status code.
	KindInit Kind = iota
	// KindConfigure takes one string argument and returns a status code.
	KindConfigure
	// KindExchange takes a serialized payload and returns a serialized
	// result.
	KindExchange
)

// Symbol names an exported entry point and its expected shape. The
// full symbol set of a module is verified when the module is loaded,
// not when an entry point is first called.
type Symbol struct {
	Name string
	Kind Kind
}

// Callable invokes a bound entry point. Entry points without a string
// argument ignore arg; entry points without a string result return "".
type Callable func(arg string) (string, error)

// Handle is a bound native module. A Handle is owned exclusively by
// the caller that loaded it and is never shared between plugins.
type Handle struct {
	name string
	ops  map[string]Callable
}

// NewHandle builds a Handle over already-bound operations. The real
// loader uses it after symbol binding; test fakes use it directly.
func NewHandle(name string, ops map[string]Callable) *Handle {
	bound := make(map[string]Callable, len(ops))
	for op, fn := range ops {
		bound[op] = fn
	}
	return &Handle{name: name, ops: bound}
}

// Name returns the module's logical name.
func (h *Handle) Name() string {
	return h.name
}

// Call invokes the named entry point. Calling an operation that was
// not part of the load-time symbol set fails with SymbolBindingError.
func (h *Handle) Call(op, arg string) (string, error) {
	fn, ok := h.ops[op]
	if !ok {
		return "", &SymbolBindingError{Module: h.name, Symbol: op}
	}
	return fn(arg)
}

// Loader resolves a logical module name to a shared library and binds
// the requested entry points. Implementations perform no caching:
// every Load re-resolves and re-binds, so callers avoid redundant
// loads themselves.
type Loader interface {
	Load(logicalName string, symbols []Symbol) (*Handle, error)
}
