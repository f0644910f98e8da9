// Package archive implements the package archive reader: a read-only
// view over a zip-compressed package archive, following the manifest
// and per-platform asset layout that the package fetcher downloads.
//
// The manifest is a single YAML document at the archive root, parsed
// with gopkg.in/yaml.v2, declaring the platforms a package supports and,
// per platform, the packages it depends on at a minimum version.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/vikramraodp/scriptcompiler/model"
	yaml "gopkg.in/yaml.v2"
)

// manifestFile is the archive-root entry describing the package.
const manifestFile = "scriptpkg.yaml"

// platformGroup is one entry of the manifest's per-platform dependency
// declarations.
type platformGroup struct {
	Platform     string   `yaml:"platform"`
	Dependencies []depRef `yaml:"dependencies"`
}

type depRef struct {
	ID         string `yaml:"id"`
	MinVersion string `yaml:"minVersion"`
}

type manifest struct {
	ID        string          `yaml:"id"`
	Version   string          `yaml:"version"`
	Platforms []platformGroup `yaml:"platforms"`
}

// Package is a read-only view over an opened package archive.
type Package struct {
	ID       string
	Version  string
	manifest manifest
	zr       *zip.Reader
}

// Open parses a package archive from an in-memory byte slice (the
// fetcher has already drained the network stream into memory; there is
// nothing further to release here, unlike a file-backed archive reader).
func Open(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("archive: corrupt package archive: %w", err)
	}

	raw, err := readEntry(zr, manifestFile)
	if err != nil {
		return nil, fmt.Errorf("archive: reading %s: %w", manifestFile, err)
	}

	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("archive: parsing %s: %w", manifestFile, err)
	}

	return &Package{ID: m.ID, Version: m.Version, manifest: m, zr: zr}, nil
}

// SupportedPlatforms returns the platform monikers this archive declares
// assets or dependencies for, in manifest declaration order.
func (p *Package) SupportedPlatforms() []model.PlatformMoniker {
	out := make([]model.PlatformMoniker, 0, len(p.manifest.Platforms))
	for _, group := range p.manifest.Platforms {
		out = append(out, model.PlatformMoniker(group.Platform))
	}
	return out
}

// DependenciesFor returns the dependency group declared for platform, or
// an empty sequence if no such group exists.
func (p *Package) DependenciesFor(platform model.PlatformMoniker) []model.Dependency {
	for _, group := range p.manifest.Platforms {
		if model.PlatformMoniker(group.Platform) == platform {
			deps := make([]model.Dependency, 0, len(group.Dependencies))
			for _, d := range group.Dependencies {
				deps = append(deps, model.Dependency{ID: d.ID, MinVersion: d.MinVersion})
			}
			return deps
		}
	}
	return nil
}

// FilesUnder returns archive entry paths whose containing folder equals
// prefix exactly (not recursively below it), in archive declaration
// order.
func (p *Package) FilesUnder(prefix string) []string {
	prefix = strings.Trim(prefix, "/")
	var out []string
	for _, f := range p.zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		dir := strings.Trim(path.Dir(f.Name), "/")
		if dir == prefix {
			out = append(out, f.Name)
		}
	}
	return out
}

// Extract writes entryPath's bytes into the destination writer.
func (p *Package) Extract(entryPath string, dest io.Writer) error {
	raw, err := readEntry(p.zr, entryPath)
	if err != nil {
		return err
	}
	_, err = dest.Write(raw)
	return err
}

func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("archive: entry %q not found", name)
}
