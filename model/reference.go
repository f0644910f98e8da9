package model

import (
	"path/filepath"
	"strings"
)

// ReferenceKind distinguishes a precompiled plugin reference from a
// source-directory reference contributed by a package's "src/<platform>"
// asset folder.
type ReferenceKind int

const (
	// ReferenceKindPlugin is a path to a ".so" file built with
	// -buildmode=plugin, or the bare file name (e.g. "fmt.so") of a
	// runtime-provided package.
	ReferenceKindPlugin ReferenceKind = iota
	// ReferenceKindSourceDir is a directory of interpretable Go source
	// contributed by a package with no prebuilt plugin for the selected
	// platform.
	ReferenceKindSourceDir
)

// Reference is a single resolved reference to be bound into the
// interpreter scope before evaluating the caller's source.
type Reference struct {
	Kind ReferenceKind
	// Path is either a filesystem path (plugin file or source
	// directory) or, for a runtime-provided plugin, the bare file name
	// (e.g. "fmt.so") of a package the host interpreter already
	// registers.
	Path string
	// RuntimeProvided is true when Path names a package the host
	// interpreter's stdlib symbol table already supplies; such
	// references are never extracted to disk.
	RuntimeProvided bool
}

// normalizedName is the key used for duplicate suppression: the
// lowercased base file name, extension included, so that the same
// reference added via two different paths (e.g. re-discovered through
// two dependency edges) collapses to one entry.
func (r Reference) normalizedName() string {
	if r.RuntimeProvided {
		return strings.ToLower(r.Path)
	}
	return strings.ToLower(filepath.Base(filepath.Clean(r.Path)))
}

// References is an ordered, duplicate-suppressing collection of
// Reference values. Insertion order is preserved; a name already present
// is silently skipped on re-insertion (first-wins).
type References struct {
	order []Reference
	seen  map[string]bool
}

// NewReferences returns an empty, ready-to-use reference collection.
func NewReferences() *References {
	return &References{seen: make(map[string]bool)}
}

// Add inserts ref unless a reference with the same normalized name is
// already present. Returns true when the reference was newly added.
func (rs *References) Add(ref Reference) bool {
	name := ref.normalizedName()
	if rs.seen[name] {
		return false
	}
	rs.seen[name] = true
	rs.order = append(rs.order, ref)
	return true
}

// Contains reports whether a reference with this normalized name has
// already been added.
func (rs *References) Contains(ref Reference) bool {
	return rs.seen[ref.normalizedName()]
}

// Slice returns the accumulated references in insertion (pre-order)
// order. The returned slice is owned by the caller.
func (rs *References) Slice() []Reference {
	out := make([]Reference, len(rs.order))
	copy(out, rs.order)
	return out
}

// Len reports how many distinct references have been accumulated.
func (rs *References) Len() int {
	return len(rs.order)
}
