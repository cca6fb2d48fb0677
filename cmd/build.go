package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"veilpack.dev/pkg/veilpack/internal/domain"
	m "veilpack.dev/pkg/veilpack/internal/model"
)

var buildOutputFlag string
var buildSeedFlag uint64

// buildCmd represents the build command.
var buildCmd = newBuildCmd()

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [root]",
		Short: "Build an obfuscated archive from a project directory",
		Long:  buildLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			ctx := cmd.Context()
			ui := newCommandUI(cmd)

			if err := ui.Start(ctx); err != nil {
				return err
			}

			report, err := compiler.Compile(ctx, domain.CompileArgs{
				Root:     m.Path(root),
				Output:   m.Path(viper.GetString(buildOutputKey)),
				Seed:     viper.GetUint64(buildSeedKey),
				Observer: func(event m.BuildEvent) { ui.DisplayBuildEvent(ctx, event) },
			})

			return ui.DisplayBuildReport(ctx, report, err)
		},
	}

	configureBuildFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func configureBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&buildOutputFlag, outputFlagName, "o", viper.GetString(buildOutputKey), "output archive path (\".zip\" is appended when missing)")
	bindFlagToConfig(cmd.Flags().Lookup(outputFlagName), buildOutputKey)

	cmd.Flags().Uint64Var(&buildSeedFlag, seedFlagName, viper.GetUint64(buildSeedKey), "fixed random seed for reproducible output (0 picks one)")
	bindFlagToConfig(cmd.Flags().Lookup(seedFlagName), buildSeedKey)
}
