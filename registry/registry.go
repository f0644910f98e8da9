// Package registry exposes the host-runtime asset registry: the set of
// plugin file names guaranteed to already be registered in the host
// interpreter's stdlib symbol table, so the reference builder never
// re-extracts or re-references a package that is already loaded.
package registry

//go:generate go run ../internal/registrygen

import "strings"

// IsProvidedByRuntime reports whether filename (an archive entry's leaf
// name, expected to end in ".so") is already supplied by the host
// interpreter and therefore must not be extracted to the temp
// directory. Comparison is case-insensitive, matching a zip archive's
// lax naming.
func IsProvidedByRuntime(filename string) bool {
	return runtimeProvided[strings.ToLower(filename)]
}

// Names returns the full set of runtime-provided names, for diagnostics
// and tests. The returned slice is a fresh copy.
func Names() []string {
	names := make([]string, 0, len(runtimeProvided))
	for name := range runtimeProvided {
		names = append(names, name)
	}
	return names
}
