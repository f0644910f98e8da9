package archive

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikramraodp/scriptcompiler/model"
)

func buildTestArchive(t *testing.T, manifestYAML string, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create(manifestFile)
	require.NoError(t, err)
	_, err = w.Write([]byte(manifestYAML))
	require.NoError(t, err)

	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestOpenParsesManifest(t *testing.T) {
	data := buildTestArchive(t, `
id: example.com/widget
version: 1.2.0
platforms:
  - platform: linux/amd64
    dependencies:
      - id: example.com/base
        minVersion: 1.0.0
`, map[string]string{
		"plugin/linux_amd64/widget.so": "binary-stand-in",
	})

	pkg, err := Open(data)
	require.NoError(t, err)
	assert.Equal(t, "example.com/widget", pkg.ID)
	assert.Equal(t, "1.2.0", pkg.Version)

	platforms := pkg.SupportedPlatforms()
	require.Len(t, platforms, 1)
	assert.Equal(t, model.PlatformMoniker("linux/amd64"), platforms[0])

	deps := pkg.DependenciesFor("linux/amd64")
	require.Len(t, deps, 1)
	assert.Equal(t, "example.com/base", deps[0].ID)
	assert.Equal(t, "1.0.0", deps[0].MinVersion)

	assert.Empty(t, pkg.DependenciesFor("windows/amd64"))
}

func TestFilesUnderExactPrefix(t *testing.T) {
	data := buildTestArchive(t, `
id: example.com/widget
version: 1.0.0
platforms:
  - platform: linux/amd64
`, map[string]string{
		"plugin/linux_amd64/widget.so":     "a",
		"plugin/linux_amd64/nested/x.so":   "b",
		"plugin/linux_amd64/README.md":     "c",
	})

	pkg, err := Open(data)
	require.NoError(t, err)

	files := pkg.FilesUnder("plugin/linux_amd64")
	assert.ElementsMatch(t, []string{
		"plugin/linux_amd64/widget.so",
		"plugin/linux_amd64/README.md",
	}, files)
}

func TestExtractWritesEntryBytes(t *testing.T) {
	data := buildTestArchive(t, `
id: example.com/widget
version: 1.0.0
platforms: []
`, map[string]string{
		"plugin/linux_amd64/widget.so": "binary-stand-in",
	})

	pkg, err := Open(data)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, pkg.Extract("plugin/linux_amd64/widget.so", &out))
	assert.Equal(t, "binary-stand-in", out.String())
}

func TestOpenRejectsCorruptArchive(t *testing.T) {
	_, err := Open([]byte("not a zip file"))
	assert.Error(t, err)
}
