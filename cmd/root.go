// Package cmd provides the command-line interface for plategen with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --scaffold-dir, etc.) - highest priority
//	2. PLATEGEN_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (PLATEGEN_SERVER_PORT, etc.)
//	4. Configuration files (.plategen.yml) - lowest priority
//
// Environment Variables:
//
//	PLATEGEN_CONFIG_FILE: Path to custom configuration file
//	PLATEGEN_WORKSPACE_BASE_DIR: Override workspace base directory
//	PLATEGEN_SERVER_PORT: Override server port
//	And more following the PLATEGEN_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/plategen/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plategen",
	Short: "A boilerplate generator driven by scaffold templates and blueprints",
	Long: `Plategen generates project boilerplate from scaffold template files and
YAML blueprints: placeholder tokens are spliced with code snippets, marked
lines are stripped, package.json gains dependencies and scripts, and each
generation session lands in its own build directory ready to zip.

Quick Start:
  plategen generate               Run the blueprint into a fresh session
  plategen serve                  Serve session archives for download
  plategen watch                  Regenerate on scaffold changes
  plategen version                Show version information`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Accept config-key style flag names (--scaffold_dir) as their
	// dash-separated spellings.
	rootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .plategen.yml, can also use PLATEGEN_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system with support for multiple
// config sources, in priority order: --config flag, PLATEGEN_CONFIG_FILE
// env var, then .plategen.yml in the current directory.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("PLATEGEN_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".plategen")
	}

	viper.SetEnvPrefix("PLATEGEN")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing or malformed config files degrade to defaults without failing.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger from the --log-level flag.
func newLogger() logging.Logger {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(viper.GetString("log-level"))

	return logging.NewLogger(cfg)
}
