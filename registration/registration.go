// Package registration binds the compile capability into a
// caller-supplied registry. It is deliberately thin: no DI container is
// pulled in, since nothing in the retrieval pack credibly fits that
// role and the capability itself has exactly one instance per process.
package registration

import "sync"

// Registrar is the one-method interface a caller's registry must
// satisfy. Register is free to type-assert instance down to whatever
// concrete capability interface it expects.
type Registrar interface {
	Register(name string, instance interface{})
}

// ServiceName is the key Register uses, fixed because exactly one
// compiler is registered per process.
const ServiceName = "scriptcompiler.ScriptCompiler"

var registerOnce sync.Once

// Register binds compiler into r under ServiceName. Idempotent: a
// second call in the same process is a no-op, since the registration
// surface assumes singleton lifetime.
func Register(r Registrar, compiler interface{}) {
	registerOnce.Do(func() {
		r.Register(ServiceName, compiler)
	})
}
