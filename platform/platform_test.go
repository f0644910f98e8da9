package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikramraodp/scriptcompiler/model"
)

func TestSelectPrefersExplicitRequest(t *testing.T) {
	declared := []model.PlatformMoniker{"linux/amd64", "windows/amd64"}

	selected, err := Select(declared, "windows/amd64")
	require.NoError(t, err)
	assert.Equal(t, model.PlatformMoniker("windows/amd64"), selected)
}

func TestSelectFallsThroughToFirstDeclared(t *testing.T) {
	declared := []model.PlatformMoniker{"linux/amd64", "windows/amd64"}

	selected, err := Select(declared, "")
	require.NoError(t, err)
	assert.Equal(t, model.PlatformMoniker("linux/amd64"), selected)
}

func TestSelectFailsWithNoDeclaredPlatforms(t *testing.T) {
	_, err := Select(nil, "")
	assert.ErrorIs(t, err, ErrNoPlatformsDeclared)
}

func TestSelectFailsWhenRequestedNotFound(t *testing.T) {
	_, err := Select([]model.PlatformMoniker{"linux/amd64"}, "darwin/arm64")
	assert.Error(t, err)
}

type fakeLister map[string][]string

func (f fakeLister) FilesUnder(prefix string) []string { return f[prefix] }

func TestAssetFolderPrefersPlugin(t *testing.T) {
	lister := fakeLister{
		"plugin/linux_amd64": {"plugin/linux_amd64/widget.so"},
		"src/linux_amd64":     {"src/linux_amd64/widget.go"},
	}

	folder, files, ok := AssetFolder(lister, "linux/amd64")
	assert.True(t, ok)
	assert.Equal(t, "plugin/linux_amd64", folder)
	assert.Equal(t, []string{"plugin/linux_amd64/widget.so"}, files)
}

func TestAssetFolderFallsBackToSrc(t *testing.T) {
	lister := fakeLister{
		"src/linux_amd64": {"src/linux_amd64/widget.go"},
	}

	folder, _, ok := AssetFolder(lister, "linux/amd64")
	assert.True(t, ok)
	assert.Equal(t, "src/linux_amd64", folder)
}

func TestAssetFolderNoneContributes(t *testing.T) {
	_, _, ok := AssetFolder(fakeLister{}, "linux/amd64")
	assert.False(t, ok)
}
