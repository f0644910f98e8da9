// Command registrygen regenerates registry/zz_generated_runtime.go from
// the host interpreter's stdlib symbol table (yaegi/stdlib.Symbols), the
// way golang.org/x/tools/internal/stdlib's generator regenerates its own
// manifest from the GOROOT API files. Run via `go generate ./...` from
// the module root.
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/traefik/yaegi/stdlib"
)

const outputPath = "registry/zz_generated_runtime.go"

func main() {
	names := make([]string, 0, len(stdlib.Symbols))
	for key := range stdlib.Symbols {
		// Keys are "<import path>/<package name>", e.g. "fmt/fmt".
		importPath := key
		if idx := strings.LastIndex(key, "/"); idx > 0 {
			importPath = key[:idx]
		}
		names = append(names, sanitize(importPath)+".so")
	}
	sort.Strings(names)

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "// Code generated by internal/registrygen from yaegi/stdlib.Symbols; DO NOT EDIT.")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "package registry")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "// runtimeProvided lists one entry per Go standard library package the")
	fmt.Fprintln(&buf, "// host interpreter's stdlib symbol table already registers.")
	fmt.Fprintln(&buf, "var runtimeProvided = map[string]bool{")
	for _, name := range names {
		fmt.Fprintf(&buf, "\t%q: true,\n", name)
	}
	fmt.Fprintln(&buf, "}")

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		log.Fatalf("registrygen: formatting generated source: %v", err)
	}

	if err := os.WriteFile(outputPath, formatted, 0644); err != nil {
		log.Fatalf("registrygen: writing %s: %v", outputPath, err)
	}
}

func sanitize(importPath string) string {
	return strings.ReplaceAll(strings.ReplaceAll(importPath, "/", "_"), ".", "_")
}
