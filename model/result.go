package model

import "errors"

// ErrModuleUnavailable is returned by CompilationResult.Module when the
// compile did not succeed; accessing the module handle of a failed
// result is a caller error.
var ErrModuleUnavailable = errors.New("scriptcompiler: module unavailable, compilation was not successful")

// LoadedModule is the host-chosen isolation scope's view of a
// successfully compiled script: a handle from which exported symbols
// can be invoked via reflection. The concrete implementation (an
// interpreter scope, in this codebase) lives outside model so that this
// package stays free of a dependency on the compiler/loader library.
type LoadedModule interface {
	// Invoke calls the exported function identified by a
	// dot-qualified name (e.g. "main.Main") with
	// the given arguments, returning its first result.
	Invoke(symbol string, args ...interface{}) (interface{}, error)
}

// CompilationResult is the outcome of a single LoadScriptToMemory call.
//
// Invariants: Success implies module is present and Diagnostics has no
// errors; !Success implies module is absent.
type CompilationResult struct {
	Diagnostics Diagnostics
	Success     bool
	module      LoadedModule
}

// NewSuccess builds a successful result; panics if module is nil, since
// that would violate the Success-implies-module invariant at the one
// place results are constructed.
func NewSuccess(diagnostics Diagnostics, module LoadedModule) CompilationResult {
	if module == nil {
		panic("scriptcompiler: NewSuccess called with a nil module")
	}
	return CompilationResult{Diagnostics: diagnostics, Success: true, module: module}
}

// NewFailure builds a failed result from a non-empty error-bearing
// diagnostic sequence.
func NewFailure(diagnostics Diagnostics) CompilationResult {
	return CompilationResult{Diagnostics: diagnostics, Success: false}
}

// Module returns the loaded module handle. Returns ErrModuleUnavailable
// when Success is false, rather than returning a nil handle silently.
func (r CompilationResult) Module() (LoadedModule, error) {
	if !r.Success {
		return nil, ErrModuleUnavailable
	}
	return r.module, nil
}

// Errors is a convenience view over Diagnostics.Errors().
func (r CompilationResult) Errors() Diagnostics {
	return r.Diagnostics.Errors()
}
