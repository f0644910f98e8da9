package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vikramraodp/scriptcompiler/app"
)

var (
	cfgFile   string
	scriptApp *app.App
	version   string
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:           "scriptcompiler",
	Short:         "Compiles a string of Go source into an in-memory module",
	Long:          `scriptcompiler resolves local and remote package references and compiles a single source string into a loaded, invocable module.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to RootCmd and runs it. Called once
// from main.main.
func Execute(a *app.App, v string) error {
	scriptApp = a
	version = v

	return RootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.scriptcompiler.yaml)")

	RootCmd.PersistentFlags().StringP("temp-dir", "t", os.TempDir(), "Directory used to stage extracted package assets.")
	RootCmd.PersistentFlags().StringP("source-url", "u", "", "Package source URL (defaults to the canonical proxy).")
	RootCmd.PersistentFlags().StringP("metrics", "M", "", "Path to a CSV file to store timing metrics into.")
	RootCmd.PersistentFlags().BoolP("verbose", "V", false, "Verbose output flag; no command reads it.")

	viper.BindPFlags(RootCmd.PersistentFlags())
}

func initConfig() {
	initViper(viper.GetViper())
}

func initViper(v *viper.Viper) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	v.SetEnvPrefix("SCRIPTCOMPILER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetConfigName(".scriptcompiler")
	v.AddConfigPath("$HOME")
	v.AutomaticEnv()

	_ = v.ReadInConfig()
}
