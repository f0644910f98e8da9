package main

import (
	"fmt"
	"os"

	"github.com/vikramraodp/scriptcompiler/app"
	"github.com/vikramraodp/scriptcompiler/cmd"
	"github.com/vikramraodp/scriptcompiler/ui"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	a := app.NewApp(ui.New(), app.Options{
		TempDir:       os.TempDir(),
		PackageSource: "",
	}, version)

	if err := cmd.Execute(a, version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
