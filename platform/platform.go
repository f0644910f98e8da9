// Package platform implements the platform selector: choosing the best
// asset subfolder of a package archive for a requested platform moniker.
package platform

import (
	"fmt"

	"github.com/vikramraodp/scriptcompiler/model"
)

// ErrNoPlatformsDeclared is returned when an archive declares no
// platforms at all, so no selection is possible.
var ErrNoPlatformsDeclared = fmt.Errorf("platform: archive declares no supported platforms")

// Select chooses the platform to use from the archive's declared set,
// given the caller's requested moniker (which may be empty):
//
//  1. non-empty requested: first archive platform that string-equals it
//  2. empty requested: the first declared platform
//  3. no declared platforms: failure
func Select(declared []model.PlatformMoniker, requested model.PlatformMoniker) (model.PlatformMoniker, error) {
	if len(declared) == 0 {
		return "", ErrNoPlatformsDeclared
	}

	if requested != "" {
		for _, p := range declared {
			if p == requested {
				return p, nil
			}
		}
		return "", fmt.Errorf("platform: no archive platform matches requested %q", requested)
	}

	return declared[0], nil
}

// assetFolderCandidates lists, in priority order, the archive folder
// prefixes an asset lookup for shortName should try.
func assetFolderCandidates(shortName string) []string {
	return []string{
		"plugin/" + shortName,
		"src/" + shortName,
	}
}

// FolderLister is satisfied by archive.Package; kept as a narrow
// interface here so platform stays independent of the archive package's
// zip-reading concerns.
type FolderLister interface {
	FilesUnder(prefix string) []string
}

// AssetFolder returns the first non-empty candidate folder ("plugin/<shortName>"
// then "src/<shortName>") and its files. Returns ok=false when neither
// folder contributes assets (the package's dependencies are still
// processed in that case).
func AssetFolder(archivePkg FolderLister, selected model.PlatformMoniker) (folder string, files []string, ok bool) {
	for _, candidate := range assetFolderCandidates(selected.ShortFolderName()) {
		if entries := archivePkg.FilesUnder(candidate); len(entries) > 0 {
			return candidate, entries, true
		}
	}
	return "", nil, false
}
