// Package model holds the data types shared by the package resolver,
// archive reader and compile driver: package coordinates, platform
// monikers, references and diagnostics.
package model

import "strings"

// PlatformMoniker identifies a target ABI/stdlib profile a package
// archive can declare assets for, e.g. "linux/amd64". Equality is plain
// string equality against the monikers an archive manifest declares.
type PlatformMoniker string

// ShortFolderName is the archive-internal folder suffix derived from the
// moniker, e.g. "linux/amd64" -> "linux_amd64".
func (m PlatformMoniker) ShortFolderName() string {
	return strings.ReplaceAll(string(m), "/", "_")
}

// PackageCoordinate is a caller-supplied reference to a package, parsed
// from a string of the form "id,version[,platform]".
type PackageCoordinate struct {
	ID       string
	Version  string
	Platform PlatformMoniker
}

// Key identifies a coordinate for the in-progress-walk guard: id and
// version together, not the platform, since two requests for the same
// id/version with different platform pins still name one archive.
func (c PackageCoordinate) Key() string {
	return c.ID + "@" + c.Version
}

// String reconstitutes the reference grammar, mainly for diagnostics.
func (c PackageCoordinate) String() string {
	if c.Platform == "" {
		return c.ID + "," + c.Version
	}
	return c.ID + "," + c.Version + "," + string(c.Platform)
}

// ParseCoordinate splits a caller-supplied reference string on "," per
// the bit-exact grammar: the first two fields are id and version; fields
// 3+ are joined back with "," to tolerate platform monikers that
// themselves contain commas.
//
// Returns ok=false when fewer than two fields are present.
func ParseCoordinate(s string) (PackageCoordinate, bool) {
	fields := strings.Split(s, ",")
	if len(fields) < 2 {
		return PackageCoordinate{}, false
	}

	coord := PackageCoordinate{
		ID:      strings.TrimSpace(fields[0]),
		Version: strings.TrimSpace(fields[1]),
	}
	if len(fields) > 2 {
		coord.Platform = PlatformMoniker(strings.Join(fields[2:], ","))
	}
	return coord, true
}

// Dependency is a declared minimum-version dependency of a package, as
// read from an archive manifest's per-platform dependency group.
type Dependency struct {
	ID         string
	MinVersion string
}

// Coordinate returns the dependency as a coordinate string pinned to the
// given platform, per the two-attempt retry the reference builder uses:
// first with the parent's platform, then (on failure) unpinned.
func (d Dependency) Coordinate(platform PlatformMoniker) string {
	if platform == "" {
		return d.ID + "," + d.MinVersion
	}
	return d.ID + "," + d.MinVersion + "," + string(platform)
}

// CoordinateUnpinned returns the dependency coordinate with no platform,
// letting the child package select its own.
func (d Dependency) CoordinateUnpinned() string {
	return d.ID + "," + d.MinVersion
}
