package refset

import "strings"

// parseLocalAssembly normalizes a single caller-supplied precompiled
// reference string into a file reference:
//
//   - contains a comma: treated as a strong-name-like token; the
//     substring before the first comma has ".so" appended.
//   - otherwise: treated as a filesystem path and used verbatim.
func parseLocalAssembly(ref string) string {
	if idx := strings.IndexByte(ref, ','); idx >= 0 {
		return strings.TrimSpace(ref[:idx]) + ".so"
	}
	return ref
}
