// Package compiler ties the reference set builder, the package
// fetcher, and the compile & emit driver together behind the single
// entrypoint a caller actually needs: LoadScriptToMemory.
//
// Grounded on app.(*Fissile).GenerateBaseDockerImage /
// CreateFinalImage's role as a thin orchestration wrapper around
// compilator.Compile, including its stampy metrics bracketing.
package compiler

import (
	"context"
	"fmt"

	"github.com/SUSE/stampy"
	"github.com/SUSE/termui"
	"github.com/traefik/yaegi/interp"

	"github.com/vikramraodp/scriptcompiler/fetch"
	"github.com/vikramraodp/scriptcompiler/interpdriver"
	"github.com/vikramraodp/scriptcompiler/model"
	"github.com/vikramraodp/scriptcompiler/refset"
	"github.com/vikramraodp/scriptcompiler/ui"
)

// Compiler bundles the collaborators LoadScriptToMemory needs: a
// fetcher, progress UI, and an optional metrics path. The zero value is
// ready to use (no progress narration, no metrics).
type Compiler struct {
	Fetcher     refset.Fetcher
	UI          *termui.UI
	MetricsPath string
}

// New returns a Compiler with the default HTTP-backed fetcher and the
// given progress UI (nil suppresses narration).
func New(u *termui.UI) *Compiler {
	return &Compiler{Fetcher: fetch.New(), UI: u}
}

// LoadScriptToMemory resolves referencedAssemblies and packageReferences
// into an ordered reference set, parses and compiles source against
// that set, and loads the result into customLoadScope (or a fresh
// interpreter scope when nil).
func (c *Compiler) LoadScriptToMemory(
	ctx context.Context,
	source string,
	referencedAssemblies []string,
	packageReferences []string,
	tempPath string,
	packageSourceURL string,
	customLoadScope *interp.Interpreter,
) (*model.CompilationResult, error) {
	if source == "" {
		return nil, ErrEmptySource
	}

	if c.MetricsPath != "" {
		stampy.Stamp(c.MetricsPath, "scriptcompiler", "load-script", "start")
		defer stampy.Stamp(c.MetricsPath, "scriptcompiler", "load-script", "done")
	}

	fetcher := c.Fetcher
	if fetcher == nil {
		fetcher = fetch.New()
	}

	builder := refset.NewBuilder(fetcher, c.UI)
	builder.AddLocalAssemblies(referencedAssemblies)

	if len(packageReferences) > 0 {
		if c.MetricsPath != "" {
			stampy.Stamp(c.MetricsPath, "scriptcompiler", "resolve-packages", "start")
			defer stampy.Stamp(c.MetricsPath, "scriptcompiler", "resolve-packages", "done")
		}
		if err := builder.AddPackages(ctx, packageReferences, tempPath, packageSourceURL); err != nil {
			return nil, fmt.Errorf("compiler: resolving package_references: %w", err)
		}
	}

	refs := builder.Build()

	syntax, parseDiags := interpdriver.Parse(source)
	if parseDiags.HasErrors() {
		result := model.NewFailure(parseDiags)
		if c.UI != nil {
			for _, d := range parseDiags.Errors() {
				ui.Unresolvable(c.UI, "syntax", fmt.Errorf("%s", d.Message))
			}
		}
		return &result, nil
	}

	driver := interpdriver.New()
	result := driver.Compile(ctx, syntax, refs, interpdriver.Options{}, customLoadScope)

	if c.UI != nil {
		if result.Success {
			ui.Done(c.UI)
		} else {
			for _, d := range result.Errors() {
				ui.Unresolvable(c.UI, "compile", fmt.Errorf("%s", d.Message))
			}
		}
	}

	return result, nil
}

// defaultCompiler backs the package-level LoadScriptToMemory
// convenience function for callers that don't need custom UI or
// metrics wiring.
var defaultCompiler = &Compiler{}

// LoadScriptToMemory is the package-level entrypoint matching the
// external interface exactly; it delegates to a no-UI, no-metrics
// Compiler. Callers that want progress narration or stampy metrics
// should construct their own Compiler via New.
func LoadScriptToMemory(
	ctx context.Context,
	source string,
	referencedAssemblies []string,
	packageReferences []string,
	tempPath string,
	packageSourceURL string,
	customLoadScope *interp.Interpreter,
) (*model.CompilationResult, error) {
	return defaultCompiler.LoadScriptToMemory(ctx, source, referencedAssemblies, packageReferences, tempPath, packageSourceURL, customLoadScope)
}
