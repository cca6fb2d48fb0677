package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "veilpack.dev/pkg/veilpack/internal/model"
)

var revealDestFlag string

// revealCmd represents the reveal command.
var revealCmd = newRevealCmd()

func newRevealCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reveal <archive>",
		Short: "Decode a built archive back to its sources",
		Long:  revealLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dest := m.Path(viper.GetString(revealDestKey))

			entries, err := inspector.RevealArchive(ctx, m.Path(args[0]), dest)
			if err != nil {
				return err
			}

			cmd.Printf("revealed %d entries into %s\n", len(entries), dest)

			return nil
		},
	}

	cmd.Flags().StringVarP(&revealDestFlag, destFlagName, "d", viper.GetString(revealDestKey), "directory to extract into")
	bindFlagToConfig(cmd.Flags().Lookup(destFlagName), revealDestKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(revealCmd)
}
