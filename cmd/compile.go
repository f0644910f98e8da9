package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vikramraodp/scriptcompiler/app"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compiles a source file and reports diagnostics",
	Long: `
Reads --source-file, resolves every --reference (a local precompiled
module, strong-name or path form) and --package (an "id,version[,platform]"
coordinate) into a reference set, compiles the source against it, and
prints the resulting diagnostics.

Exits non-zero when compilation did not succeed.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceFile := compileViper.GetString("source-file")
		if sourceFile == "" {
			return fmt.Errorf("--source-file is required")
		}

		source, err := os.ReadFile(sourceFile)
		if err != nil {
			return fmt.Errorf("reading source file: %w", err)
		}

		references := compileViper.GetStringSlice("reference")
		packages := compileViper.GetStringSlice("package")

		tempDir := viper.GetString("temp-dir")
		sourceURL := viper.GetString("source-url")

		scriptApp.Options.TempDir = tempDir
		scriptApp.Options.PackageSource = sourceURL
		scriptApp.Options.Metrics = viper.GetString("metrics")

		result, err := scriptApp.Compile(context.Background(), string(source), references, packages)
		if err != nil {
			return err
		}

		for _, diag := range result.Diagnostics {
			scriptApp.UI.Println(diag.String())
		}

		if !result.Success {
			os.Exit(1)
		}
		return nil
	},
}

var compileViper = viper.New()

func init() {
	RootCmd.AddCommand(compileCmd)
	initViper(compileViper)

	compileCmd.PersistentFlags().StringP("source-file", "f", "", "Path to a file containing the Go source to compile.")
	compileCmd.PersistentFlags().StringSliceP("reference", "r", nil, "A local precompiled module reference (repeatable).")
	compileCmd.PersistentFlags().StringSliceP("package", "p", nil, "A package coordinate \"id,version[,platform]\" (repeatable).")

	compileViper.BindPFlags(compileCmd.PersistentFlags())
}
