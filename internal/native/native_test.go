package native

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandle_CallDispatchesByName(t *testing.T) {
	h := NewHandle("libdemo", map[string]Callable{
		"demo_echo": func(arg string) (string, error) { return arg, nil },
	})

	out, err := h.Call("demo_echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, "libdemo", h.Name())
}

func TestHandle_CallUnknownSymbol(t *testing.T) {
	h := NewHandle("libdemo", nil)

	_, err := h.Call("demo_missing", "")

	var bindErr *SymbolBindingError
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, "libdemo", bindErr.Module)
	assert.Equal(t, "demo_missing", bindErr.Symbol)
}

func TestDLLoader_MissingFileIsModuleNotFound(t *testing.T) {
	loader := NewDLLoader(t.TempDir()+string(os.PathSeparator), discard())

	_, err := loader.Load("libnosuch", []Symbol{{Name: "nosuch_init", Kind: KindInit}})

	var notFound *ModuleNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "libnosuch", notFound.Module)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDLLoader_UnloadableFileIsModuleNotFound(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("dynamic loading is unix-only")
	}

	dir := t.TempDir() + string(os.PathSeparator)
	ext := ".so"
	if runtime.GOOS == "darwin" {
		ext = ".dylib"
	}
	// A present but garbage file must still map to ModuleNotFoundError,
	// never to a binding error.
	path := filepath.Join(dir, "libgarbage"+ext)
	require.NoError(t, os.WriteFile(path, []byte("not a shared object"), 0o644))

	loader := NewDLLoader(dir, discard())
	_, err := loader.Load("libgarbage", []Symbol{{Name: "garbage_init", Kind: KindInit}})

	var notFound *ModuleNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, path, notFound.Path)

	var bindErr *SymbolBindingError
	assert.False(t, errors.As(err, &bindErr))
}
