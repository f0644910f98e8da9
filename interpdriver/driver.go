// Package interpdriver implements the compile & emit driver: it parses
// source, binds the accumulated reference set into a fresh interpreter
// scope, evaluates the source, and wraps the result as a loaded module.
//
// The compile front-end is treated as thin glue over a host language
// compiler library, specified only at its contract surface; here that
// library is github.com/traefik/yaegi, an embeddable Go interpreter,
// which both compiles (evaluates) source and is, itself, the isolation
// scope a loaded module lives in.
package interpdriver

import (
	"context"
	"fmt"
	"go/parser"
	"go/scanner"
	"go/token"
	"os"
	"path/filepath"
	"plugin"
	"reflect"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/vikramraodp/scriptcompiler/model"
)

// assemblyCounter names each compiled program "ScriptAssembly<N>" with
// an atomically incremented counter, since
// time.Now() in a long-lived process offers no uniqueness guarantee
// across rapid back-to-back calls.
var assemblyCounter int64

// SyntaxUnit is the parsed form of a caller's source, produced by Parse.
type SyntaxUnit struct {
	source string
}

// Parse performs a syntax-only precheck with go/parser (grounded on the
// golang-pkgsite example's use of go/parser for not-yet-evaluated
// module source) so that a syntax error becomes a Diagnostic before any
// evaluation is attempted, rather than surfacing from deep inside the
// interpreter.
func Parse(source string) (*SyntaxUnit, model.Diagnostics) {
	wrapped := wrapAsFile(source)

	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "script.go", wrapped, parser.AllErrors)
	if err == nil {
		return &SyntaxUnit{source: source}, nil
	}

	var diags model.Diagnostics
	if errList, ok := err.(scanner.ErrorList); ok {
		for _, e := range errList {
			diags = append(diags, model.Diagnostic{
				Severity: model.SeverityError,
				Message:  e.Msg,
				Location: model.SourcePosition{Line: e.Pos.Line, Column: e.Pos.Column},
			})
		}
		return &SyntaxUnit{source: source}, diags
	}

	diags = append(diags, model.Diagnostic{
		Severity: model.SeverityError,
		Message:  err.Error(),
	})
	return &SyntaxUnit{source: source}, diags
}

// wrapAsFile wraps a bare script body (the unit a caller hands
// LoadScriptToMemory) in a package clause so go/parser can check it;
// yaegi itself accepts bare statement/declaration lists directly and
// does not need this wrapping.
func wrapAsFile(source string) string {
	trimmed := strings.TrimSpace(source)
	if strings.HasPrefix(trimmed, "package ") {
		return source
	}
	return "package main\n" + source
}

// Options configures a single Compile call.
type Options struct {
	// WarnAsError promotes every warning diagnostic to an error for
	// the purposes of the result's error view.
	WarnAsError bool
}

// Driver evaluates parsed source against an accumulated reference set
// and produces a CompilationResult.
type Driver struct{}

// New returns a ready-to-use Driver. It carries no state: every Compile
// call creates its own interpreter scope (or reuses the caller-supplied
// one), so a single Driver value is safe for concurrent, independent use.
func New() *Driver {
	return &Driver{}
}

// Compile binds refs into a fresh interpreter scope (or scope, when the
// caller supplied a custom isolation scope), evaluates syntax, and
// returns the compilation result. Compile does not look up any exported
// symbol itself; the caller names one when calling Invoke on the loaded
// module.
func (d *Driver) Compile(ctx context.Context, syntax *SyntaxUnit, refs []model.Reference, opts Options, scope *interp.Interpreter) *model.CompilationResult {
	name := fmt.Sprintf("ScriptAssembly%d", atomic.AddInt64(&assemblyCounter, 1))

	i := scope
	if i == nil {
		i = interp.New(interp.Options{})
	}
	if err := i.Use(stdlib.Symbols); err != nil {
		result := model.NewFailure(model.Diagnostics{compileFailureDiagnostic(name, err, opts)})
		return &result
	}

	for _, ref := range refs {
		if ref.RuntimeProvided || ref.Kind != model.ReferenceKindPlugin {
			continue
		}
		if err := bindPlugin(i, ref.Path); err != nil {
			result := model.NewFailure(model.Diagnostics{compileFailureDiagnostic(name, err, opts)})
			return &result
		}
	}

	for _, ref := range refs {
		if ref.Kind != model.ReferenceKindSourceDir {
			continue
		}
		if err := evalSourceDir(i, ref.Path); err != nil {
			result := model.NewFailure(model.Diagnostics{compileFailureDiagnostic(name, err, opts)})
			return &result
		}
	}

	select {
	case <-ctx.Done():
		result := model.NewFailure(model.Diagnostics{compileFailureDiagnostic(name, ctx.Err(), opts)})
		return &result
	default:
	}

	if _, err := i.Eval(syntax.source); err != nil {
		result := model.NewFailure(model.Diagnostics{compileFailureDiagnostic(name, err, opts)})
		return &result
	}

	module := &loadedModule{interp: i}
	result := model.NewSuccess(nil, module)
	return &result
}

func compileFailureDiagnostic(name string, err error, opts Options) model.Diagnostic {
	return model.Diagnostic{
		Severity:    model.SeverityError,
		WarnAsError: opts.WarnAsError,
		Message:     fmt.Sprintf("%s: %v", name, err),
	}
}

// bindPlugin opens a precompiled ".so" reference and merges the symbol
// table it exports (conventionally a package-level "Symbols" variable
// of type interp.Exports) into the interpreter scope.
func bindPlugin(i *interp.Interpreter, path string) error {
	p, err := plugin.Open(path)
	if err != nil {
		return fmt.Errorf("interpdriver: opening plugin %s: %w", path, err)
	}

	sym, err := p.Lookup("Symbols")
	if err != nil {
		return fmt.Errorf("interpdriver: plugin %s does not export Symbols: %w", path, err)
	}

	exports, ok := sym.(*interp.Exports)
	if !ok {
		return fmt.Errorf("interpdriver: plugin %s exports Symbols of the wrong type", path)
	}

	return i.Use(*exports)
}

// evalSourceDir evaluates every ".go" file under dir in lexical order.
// This is the yaegi-native analogue of extracting a source-only asset
// folder: there is no prebuilt plugin to Open, so the files themselves
// are interpreted directly.
func evalSourceDir(i *interp.Interpreter, dir string) error {
	entries, err := readGoFiles(dir)
	if err != nil {
		return err
	}
	for _, content := range entries {
		if _, err := i.Eval(content); err != nil {
			return fmt.Errorf("interpdriver: evaluating source asset in %s: %w", dir, err)
		}
	}
	return nil
}

// readGoFiles returns the contents of every ".go" file directly under
// dir, sorted by filename, so evaluation order is deterministic.
func readGoFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("interpdriver: reading source asset folder %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".go") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	contents := make([]string, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("interpdriver: reading %s: %w", name, err)
		}
		contents = append(contents, string(data))
	}
	return contents, nil
}

// loadedModule adapts an evaluated *interp.Interpreter to
// model.LoadedModule.
type loadedModule struct {
	interp *interp.Interpreter
}

// Invoke resolves symbol (a dot-qualified exported name) via the
// interpreter and calls it by reflection, returning its first result.
func (m *loadedModule) Invoke(symbol string, args ...interface{}) (interface{}, error) {
	v, err := m.interp.Eval(symbol)
	if err != nil {
		return nil, fmt.Errorf("interpdriver: resolving exported symbol %q: %w", symbol, err)
	}
	if v.Kind() != reflect.Func {
		return nil, fmt.Errorf("interpdriver: symbol %q is not a function", symbol)
	}

	in := make([]reflect.Value, len(args))
	for idx, a := range args {
		in[idx] = reflect.ValueOf(a)
	}

	out := v.Call(in)
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}
