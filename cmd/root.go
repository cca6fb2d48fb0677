// Package cmd provides the root command and CLI setup for veilpack.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"veilpack.dev/pkg/veilpack/internal/adapter"
	"veilpack.dev/pkg/veilpack/internal/controller"
	"veilpack.dev/pkg/veilpack/internal/domain"
)

var fsAdapter adapter.SourceFSAdapter
var archiveAdapter adapter.ArchiveAdapter
var compiler domain.Compiler
var inspector domain.Inspector

// logFileFlag overrides the configured log file path.
var logFileFlag string

// verboseFlag enables debug logging.
var verboseFlag bool

// noTUIFlag forces plain output even on a terminal.
var noTUIFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	wireDependencies(nil)
}

// wireDependencies builds the adapters and domain services. It runs again
// once the logger is configured so they log to it.
func wireDependencies(logger *slog.Logger) {
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	archiveAdapter = adapter.NewZipArchiveAdapter(logger)
	compiler = domain.NewCompiler(fsAdapter, archiveAdapter, logger)
	inspector = domain.NewInspector(fsAdapter, archiveAdapter, logger)
}

const rootLongDescription = `Veilpack builds a web project (HTML, CSS, JavaScript and any other
files) into a zip archive in which every text asset is replaced by a
self-decoding, obfuscated bootstrap. Other files are copied unchanged.

Version-control metadata (.git) and Python caches (__pycache__) are never
included, nor is the output archive itself.`

const buildLongDescription = `Build the project rooted at the given directory (default: current
directory) into an obfuscated archive.

Files ending in .html, .css and .js are rewritten; everything else is copied
byte-for-byte. A ".zip" suffix is appended to the output path when missing.
Pass --seed to make the randomized output reproducible.`

const listLongDescription = `List the entries of an archive produced by "veilpack build".`

const revealLongDescription = `Extract an archive produced by "veilpack build" into a directory,
decoding every obfuscated asset back to its source text. Stylesheets come
back with comments removed and whitespace collapsed.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "veilpack",
		Short: "Obfuscating web asset packager",
		Long:  rootLongDescription,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			configureLogger(logFileFlag, verboseFlag)
			wireDependencies(globalLogger)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path (default: "+defaultLogPath()+")")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&noTUIFlag, noTUIFlagName, false, "disable the interactive progress display")
}

// newCommandUI selects the output for cmd from config and flags.
func newCommandUI(cmd *cobra.Command) controller.UI {
	return controller.NewUI(cmd, viper.GetBool(uiTUIKey) && !noTUIFlag)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
