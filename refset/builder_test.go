package refset

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikramraodp/scriptcompiler/archive"
	"github.com/vikramraodp/scriptcompiler/model"
)

func buildArchive(t *testing.T, manifestYAML string, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("scriptpkg.yaml")
	require.NoError(t, err)
	_, err = w.Write([]byte(manifestYAML))
	require.NoError(t, err)
	for name, content := range files {
		fw, err := zw.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

type fakeFetcher struct {
	archives map[string][]byte
}

func (f *fakeFetcher) Fetch(ctx context.Context, sourceURL, id, version string) (*archive.Package, bool, error) {
	data, found := f.archives[id+"@"+version]
	if !found {
		return nil, false, nil
	}
	pkg, err := archive.Open(data)
	if err != nil {
		return nil, false, err
	}
	return pkg, true, nil
}

func TestAddPackagesPreOrderWalk(t *testing.T) {
	root := buildArchive(t, `
id: example.com/root
version: 1.0.0
platforms:
  - platform: linux/amd64
    dependencies:
      - id: example.com/dep
        minVersion: 1.0.0
`, map[string]string{
		"plugin/linux_amd64/root.so": "root-binary",
	})

	dep := buildArchive(t, `
id: example.com/dep
version: 1.0.0
platforms:
  - platform: linux/amd64
`, map[string]string{
		"plugin/linux_amd64/dep.so": "dep-binary",
	})

	fetcher := &fakeFetcher{archives: map[string][]byte{
		"example.com/root@1.0.0": root,
		"example.com/dep@1.0.0":  dep,
	}}

	tempDir := t.TempDir()
	b := NewBuilder(fetcher, nil)
	err := b.AddPackages(context.Background(), []string{"example.com/root,1.0.0,linux/amd64"}, tempDir, "")
	require.NoError(t, err)

	refs := b.Build()
	require.Len(t, refs, 2)
	assert.Equal(t, filepath.Join(tempDir, "root.so"), refs[0].Path)
	assert.Equal(t, filepath.Join(tempDir, "dep.so"), refs[1].Path)

	assert.FileExists(t, filepath.Join(tempDir, "root.so"))
	assert.FileExists(t, filepath.Join(tempDir, "dep.so"))
}

func TestAddPackagesRuntimeProvidedShortCircuits(t *testing.T) {
	root := buildArchive(t, `
id: example.com/root
version: 1.0.0
platforms:
  - platform: linux/amd64
`, map[string]string{
		"plugin/linux_amd64/fmt.so": "should-not-matter",
	})

	fetcher := &fakeFetcher{archives: map[string][]byte{"example.com/root@1.0.0": root}}
	tempDir := t.TempDir()
	b := NewBuilder(fetcher, nil)

	require.NoError(t, b.AddPackages(context.Background(), []string{"example.com/root,1.0.0,linux/amd64"}, tempDir, ""))

	refs := b.Build()
	require.Len(t, refs, 1)
	assert.True(t, refs[0].RuntimeProvided)
	assert.Equal(t, "fmt.so", refs[0].Path)

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "runtime-provided entries must not be extracted")
}

func TestAddPackagesSourceOnlyAssetFolderContributesSourceDirReference(t *testing.T) {
	root := buildArchive(t, `
id: example.com/widget
version: 1.0.0
platforms:
  - platform: linux/amd64
`, map[string]string{
		"src/linux_amd64/widget.go": "package widget\n\nfunc Greet() string { return \"hello\" }\n",
	})

	fetcher := &fakeFetcher{archives: map[string][]byte{"example.com/widget@1.0.0": root}}
	tempDir := t.TempDir()
	b := NewBuilder(fetcher, nil)

	require.NoError(t, b.AddPackages(context.Background(), []string{"example.com/widget,1.0.0,linux/amd64"}, tempDir, ""))

	refs := b.Build()
	require.Len(t, refs, 1)
	assert.Equal(t, model.ReferenceKindSourceDir, refs[0].Kind)
	assert.DirExists(t, refs[0].Path)
	assert.FileExists(t, filepath.Join(refs[0].Path, "widget.go"))
}

func TestAddPackagesUnresolvableTopLevelFails(t *testing.T) {
	fetcher := &fakeFetcher{archives: map[string][]byte{}}
	b := NewBuilder(fetcher, nil)

	err := b.AddPackages(context.Background(), []string{"example.com/missing,9.9.9"}, t.TempDir(), "")
	require.Error(t, err)

	var unresolvable *PackageUnresolvableError
	require.ErrorAs(t, err, &unresolvable)
	assert.Equal(t, "example.com/missing,9.9.9", unresolvable.Coordinate)
}

func TestAddPackagesMalformedCoordinateFails(t *testing.T) {
	fetcher := &fakeFetcher{archives: map[string][]byte{}}
	b := NewBuilder(fetcher, nil)

	err := b.AddPackages(context.Background(), []string{"OnlyAnId"}, t.TempDir(), "")
	assert.Error(t, err)
}

func TestAddLocalAssembliesParsesStrongNameTokens(t *testing.T) {
	b := NewBuilder(&fakeFetcher{}, nil)
	b.AddLocalAssemblies([]string{
		"Host.Tests, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null",
		"/abs/path/to/other.so",
	})

	refs := b.Build()
	require.Len(t, refs, 2)
	assert.Equal(t, model.ReferenceKindPlugin, refs[0].Kind)
	assert.Equal(t, "Host.Tests.so", refs[0].Path)
	assert.Equal(t, "/abs/path/to/other.so", refs[1].Path)
}

func TestAddPackagesDependencyCycleGuardDoesNotHang(t *testing.T) {
	a := buildArchive(t, `
id: example.com/a
version: 1.0.0
platforms:
  - platform: linux/amd64
    dependencies:
      - id: example.com/b
        minVersion: 1.0.0
`, nil)
	bb := buildArchive(t, `
id: example.com/b
version: 1.0.0
platforms:
  - platform: linux/amd64
    dependencies:
      - id: example.com/a
        minVersion: 1.0.0
`, nil)

	fetcher := &fakeFetcher{archives: map[string][]byte{
		"example.com/a@1.0.0": a,
		"example.com/b@1.0.0": bb,
	}}
	builder := NewBuilder(fetcher, nil)

	done := make(chan error, 1)
	go func() {
		done <- builder.AddPackages(context.Background(), []string{"example.com/a,1.0.0,linux/amd64"}, t.TempDir(), "")
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("AddPackages did not return, in-progress guard likely failed to break the cycle")
	}
}
