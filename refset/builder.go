// Package refset implements the reference set builder: the central
// component that maintains the growing ordered list of references and
// drives the transitive resolution of the package dependency graph.
//
// The walk itself is grounded directly on
// compilator.(*Compilator).gatherPackagesFromInstanceGroups's
// container/list pending-queue pattern with a visited-by-name guard; the
// concurrent prefetch of top-level coordinates is grounded on
// compilator.(*Compilator).Compile's jimmysawczuk/worker job queue.
package refset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	workerLib "github.com/jimmysawczuk/worker"
	"github.com/pborman/uuid"
	shutil "github.com/termie/go-shutil"

	"github.com/vikramraodp/scriptcompiler/archive"
	"github.com/vikramraodp/scriptcompiler/model"
	"github.com/vikramraodp/scriptcompiler/platform"
	"github.com/vikramraodp/scriptcompiler/registry"
	"github.com/vikramraodp/scriptcompiler/ui"

	"github.com/SUSE/termui"
)

// Fetcher is the narrow interface Builder needs from the package
// fetcher; satisfied by *fetch.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, sourceURL, id, version string) (*archive.Package, bool, error)
}

// PackageUnresolvableError reports a top-level package reference that
// could not be fetched, parsed, or matched to a platform.
type PackageUnresolvableError struct {
	Coordinate string
}

func (e *PackageUnresolvableError) Error() string {
	return fmt.Sprintf("refset: package reference %q could not be resolved", e.Coordinate)
}

// PrefetchConcurrency bounds how many top-level coordinates Builder will
// fetch in parallel before walking their dependency graphs in order.
const PrefetchConcurrency = 4

// Builder accumulates references and drives transitive package
// resolution, in the order the compile driver will observe them.
type Builder struct {
	refs       *model.References
	inProgress map[string]bool
	fetcher    Fetcher
	ui         *termui.UI

	cacheMu sync.Mutex
	cache   map[string]cachedFetch
}

type cachedFetch struct {
	pkg *archive.Package
	ok  bool
	err error
}

// NewBuilder returns an empty Builder. u may be nil to suppress
// progress narration (library callers and tests typically pass nil or
// ui.NewSilent).
func NewBuilder(fetcher Fetcher, u *termui.UI) *Builder {
	return &Builder{
		refs:       model.NewReferences(),
		inProgress: make(map[string]bool),
		fetcher:    fetcher,
		ui:         u,
		cache:      make(map[string]cachedFetch),
	}
}

// AddLocalAssemblies normalizes and inserts user-supplied precompiled
// references, delegating per-item to the local reference parser.
func (b *Builder) AddLocalAssemblies(refs []string) {
	for _, raw := range refs {
		path := parseLocalAssembly(raw)
		b.refs.Add(model.Reference{Kind: model.ReferenceKindPlugin, Path: path})
	}
}

// AddPackages resolves and inserts each package's assets, recursing
// through dependencies. Fails fatally on the first unresolvable
// top-level coordinate.
//
// Before walking coordinates in order, it prefetches all of them
// concurrently (jimmysawczuk/worker, the same job-queue library used for
// concurrent compile stages) so the ordered walk below pays network latency once, not
// once per coordinate times however many times it is re-discovered as a
// dependency.
func (b *Builder) AddPackages(ctx context.Context, coords []string, tempPath, sourceURL string) error {
	if tempPath == "" {
		tempPath = os.TempDir()
	}

	b.prefetch(ctx, coords, sourceURL)

	for _, coordStr := range coords {
		if !b.resolvePackage(ctx, coordStr, tempPath, sourceURL) {
			if b.ui != nil {
				ui.Unresolvable(b.ui, coordStr, errors.New("unresolvable"))
			}
			return &PackageUnresolvableError{Coordinate: coordStr}
		}
	}
	return nil
}

// Build returns the accumulated references in pre-order.
func (b *Builder) Build() []model.Reference {
	return b.refs.Slice()
}

type prefetchJob struct {
	builder             *Builder
	ctx                 context.Context
	sourceURL, id, version string
}

func (j prefetchJob) Run() {
	j.builder.fetchCached(j.ctx, j.sourceURL, j.id, j.version)
}

func (b *Builder) prefetch(ctx context.Context, coords []string, sourceURL string) {
	workerLib.MaxJobs = PrefetchConcurrency
	w := workerLib.NewWorker()

	jobCount := 0
	for _, coordStr := range coords {
		coord, ok := model.ParseCoordinate(coordStr)
		if !ok {
			continue
		}
		w.Add(prefetchJob{builder: b, ctx: ctx, sourceURL: sourceURL, id: coord.ID, version: coord.Version})
		jobCount++
	}
	if jobCount == 0 {
		return
	}
	w.RunUntilDone()
}

// fetchCached fetches (sourceURL, id, version), memoizing the result so
// a coordinate reachable from more than one dependency edge, or already
// warmed by prefetch, incurs exactly one network round trip.
func (b *Builder) fetchCached(ctx context.Context, sourceURL, id, version string) (*archive.Package, bool, error) {
	key := sourceURL + "|" + id + "@" + version

	b.cacheMu.Lock()
	if cached, found := b.cache[key]; found {
		b.cacheMu.Unlock()
		return cached.pkg, cached.ok, cached.err
	}
	b.cacheMu.Unlock()

	pkg, ok, err := b.fetcher.Fetch(ctx, sourceURL, id, version)

	b.cacheMu.Lock()
	b.cache[key] = cachedFetch{pkg: pkg, ok: ok, err: err}
	b.cacheMu.Unlock()

	return pkg, ok, err
}

// resolvePackage implements the per-package resolution algorithm: fetch,
// select platform, extract this package's own assets, then recurse into
// dependencies. Own assets must land in the reference set before any
// dependency's, to keep Build()'s order a depth-first pre-order walk.
func (b *Builder) resolvePackage(ctx context.Context, coordStr, tempPath, sourceURL string) bool {
	coord, ok := model.ParseCoordinate(coordStr)
	if !ok {
		return false
	}

	key := coord.Key()
	if b.inProgress[key] {
		// Already being resolved further up the walk; treat as
		// satisfied rather than re-entering.
		return true
	}
	b.inProgress[key] = true
	defer delete(b.inProgress, key)

	pkg, found, err := b.fetchCached(ctx, sourceURL, coord.ID, coord.Version)
	if err != nil || !found {
		if b.ui != nil {
			reason := err
			if reason == nil {
				reason = fmt.Errorf("no match for %s", coordStr)
			}
			ui.Unresolvable(b.ui, coordStr, reason)
		}
		return false
	}
	if b.ui != nil {
		ui.Fetched(b.ui, coordStr, 0)
	}

	selected, err := platform.Select(pkg.SupportedPlatforms(), coord.Platform)
	if err != nil {
		if b.ui != nil {
			ui.Unresolvable(b.ui, coordStr, err)
		}
		return false
	}

	folder, files, hasAssets := platform.AssetFolder(pkg, selected)
	if hasAssets {
		if err := b.extractAssets(pkg, folder, files, tempPath); err != nil {
			if b.ui != nil {
				ui.Unresolvable(b.ui, coordStr, err)
			}
			return false
		}
	}

	for _, dep := range pkg.DependenciesFor(selected) {
		if b.resolvePackage(ctx, dep.Coordinate(selected), tempPath, sourceURL) {
			continue
		}
		if !b.resolvePackage(ctx, dep.CoordinateUnpinned(), tempPath, sourceURL) {
			return false
		}
	}

	return true
}

// nonBinaryLeaf reports whether an archive entry's leaf name is a
// placeholder or build-metadata file that must never be extracted: the
// empty-folder marker, or documentation/build-config by extension.
func nonBinaryLeaf(leaf string) bool {
	lower := strings.ToLower(leaf)
	if lower == "_.keep" {
		return true
	}
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}

// extractAssets processes one package's selected asset folder: plugin/
// folders contribute individual ".so" references (short-circuited
// against the host-runtime registry); src/ folders contribute one
// source-directory reference for the whole folder.
func (b *Builder) extractAssets(pkg *archive.Package, folder string, files []string, tempPath string) error {
	if strings.HasPrefix(folder, "src/") {
		return b.extractSourceFolder(pkg, folder, files, tempPath)
	}
	return b.extractPluginFolder(pkg, files, tempPath)
}

func (b *Builder) extractPluginFolder(pkg *archive.Package, files []string, tempPath string) error {
	for _, entry := range files {
		leaf := filepath.Base(entry)
		if nonBinaryLeaf(leaf) {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(leaf), ".so") {
			continue
		}

		if registry.IsProvidedByRuntime(leaf) {
			b.refs.Add(model.Reference{Kind: model.ReferenceKindPlugin, Path: leaf, RuntimeProvided: true})
			if b.ui != nil {
				ui.Skipped(b.ui, entry, "provided by host runtime")
			}
			continue
		}

		dest := filepath.Join(tempPath, leaf)
		if err := extractIfAbsent(pkg, entry, dest, b.ui); err != nil {
			return err
		}
		b.refs.Add(model.Reference{Kind: model.ReferenceKindPlugin, Path: dest})
	}
	return nil
}

// extractSourceFolder stages every file under the selected src/<platform>
// folder into a throwaway directory, then copies it into the package's
// durable source directory under tempPath with go-shutil's recursive
// tree copy, as compilator.copyDependencies copies a dependency's
// compiled output into a sibling package's compilation workspace. A
// source directory already present for the package is treated as
// already extracted.
func (b *Builder) extractSourceFolder(pkg *archive.Package, folder string, files []string, tempPath string) error {
	staging := filepath.Join(tempPath, ".staging-"+uuid.New())
	if err := os.MkdirAll(staging, 0755); err != nil {
		return err
	}
	defer os.RemoveAll(staging)

	for _, entry := range files {
		leaf := filepath.Base(entry)
		if nonBinaryLeaf(leaf) {
			continue
		}
		if err := extractIfAbsent(pkg, entry, filepath.Join(staging, leaf), b.ui); err != nil {
			return err
		}
	}

	destDir := filepath.Join(tempPath, "src", sanitizeID(pkg.ID))
	if err := os.MkdirAll(filepath.Dir(destDir), 0755); err != nil {
		return err
	}
	// CopyTree creates destDir itself and refuses one that already exists.
	if _, err := os.Stat(destDir); os.IsNotExist(err) {
		if err := shutil.CopyTree(staging, destDir, &shutil.CopyTreeOptions{
			Symlinks:               false,
			Ignore:                 nil,
			CopyFunction:           shutil.Copy,
			IgnoreDanglingSymlinks: false,
		}); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	b.refs.Add(model.Reference{Kind: model.ReferenceKindSourceDir, Path: destDir})
	return nil
}

func sanitizeID(folder string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(folder)
}

// extractIfAbsent ensures dest exists, extracting entry from pkg only
// when it does not: the file-existence check precedes extraction, the
// invariant that guarantees no archive entry is extracted twice to the
// same destination within a call, and that tolerates a stale file left
// over from an unrelated prior call sharing the same temp directory.
func extractIfAbsent(pkg *archive.Package, entry, dest string, u *termui.UI) error {
	if _, err := os.Stat(dest); err == nil {
		if u != nil {
			ui.Skipped(u, entry, "already extracted")
		}
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	if u != nil {
		ui.Extracting(u, entry, dest)
	}
	return pkg.Extract(entry, f)
}
