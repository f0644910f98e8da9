package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinateMandatoryFields(t *testing.T) {
	assert := assert.New(t)

	_, ok := ParseCoordinate("OnlyId")
	assert.False(ok, "a single field is not a resolvable coordinate")

	coord, ok := ParseCoordinate("Some.Package,1.2.3")
	require.New(t).True(ok)
	assert.Equal("Some.Package", coord.ID)
	assert.Equal("1.2.3", coord.Version)
	assert.Equal(PlatformMoniker(""), coord.Platform)
}

func TestParseCoordinateRejoinsPlatformFields(t *testing.T) {
	assert := assert.New(t)

	coord, ok := ParseCoordinate("Name,1.0,.NETStandard,Version=v2.0")
	require.New(t).True(ok)
	assert.Equal(PlatformMoniker(".NETStandard,Version=v2.0"), coord.Platform)
}

func TestPlatformMonikerShortFolderName(t *testing.T) {
	assert.Equal(t, "linux_amd64", PlatformMoniker("linux/amd64").ShortFolderName())
}

func TestDependencyCoordinateForms(t *testing.T) {
	assert := assert.New(t)
	dep := Dependency{ID: "example.com/lib", MinVersion: "1.4.0"}

	assert.Equal("example.com/lib,1.4.0,linux/amd64", dep.Coordinate("linux/amd64"))
	assert.Equal("example.com/lib,1.4.0", dep.Coordinate(""))
	assert.Equal("example.com/lib,1.4.0", dep.CoordinateUnpinned())
}
