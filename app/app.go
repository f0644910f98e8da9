// Package app bundles compiler.Compiler behind the same thin
// options-plus-UI wrapper idiom as fissile.App: a small struct the CLI
// constructs once from flags and hands to exactly one operation.
package app

import (
	"context"

	"github.com/SUSE/termui"
	"github.com/traefik/yaegi/interp"

	"github.com/vikramraodp/scriptcompiler/compiler"
	"github.com/vikramraodp/scriptcompiler/model"
)

// Options holds the CLI-facing configuration for a single compile
// invocation, mirroring fissile's BuildImagesOptions in spirit: every
// field is a flag value, nothing is derived.
type Options struct {
	TempDir       string
	PackageSource string
	Metrics       string
	Verbose       bool
}

// App is the CLI's handle on the compiler: UI plus options, version
// metadata carried the way fissile.Fissile carries its own Version.
type App struct {
	Options Options
	UI      *termui.UI
	Version string
}

// NewApp returns an App wired with the given UI (nil for silent
// operation) and options.
func NewApp(u *termui.UI, opt Options, version string) *App {
	return &App{Options: opt, UI: u, Version: version}
}

// Compile loads source into memory, resolving referencedAssemblies and
// packageReferences against the App's configured options.
func (a *App) Compile(ctx context.Context, source string, referencedAssemblies, packageReferences []string) (*model.CompilationResult, error) {
	c := compiler.New(a.UI)
	c.MetricsPath = a.Options.Metrics

	var scope *interp.Interpreter
	return c.LoadScriptToMemory(ctx, source, referencedAssemblies, packageReferences, a.Options.TempDir, a.Options.PackageSource, scope)
}
