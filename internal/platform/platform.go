// Package platform maps an operating system identifier to the file
// naming convention and default installation directory of native
// credential-agent libraries.
package platform

import "runtime"

// Descriptor describes where native libraries live on a platform and
// how their file names are composed.
type Descriptor struct {
	OS        string
	Extension string
	Dir       string
}

// table is keyed by GOOS. Platforms not listed here fall back to the
// generic Unix entry.
var table = map[string]Descriptor{
	"linux":   {OS: "linux", Extension: ".so", Dir: "/usr/lib/"},
	"darwin":  {OS: "darwin", Extension: ".dylib", Dir: "/usr/local/lib/"},
	"windows": {OS: "windows", Extension: ".dll", Dir: `C:\Windows\System32\`},
}

// fallback is the generic Unix entry used for unrecognized systems.
var fallback = table["linux"]

// Resolve returns the descriptor for the given OS identifier, or the
// generic Unix fallback when the identifier is unknown. It never fails.
func Resolve(goos string) Descriptor {
	if d, ok := table[goos]; ok {
		return d
	}
	d := fallback
	d.OS = goos
	return d
}

// Current returns the descriptor for the running operating system.
func Current() Descriptor {
	return Resolve(runtime.GOOS)
}

// LibraryPath composes the full path of a native library from its
// logical name, e.g. "libvcx" -> "/usr/lib/libvcx.so". No existence
// check is performed; that is the loader's job.
func (d Descriptor) LibraryPath(logicalName string) string {
	return d.Dir + logicalName + d.Extension
}
