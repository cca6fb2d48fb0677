package cmd

import (
	"github.com/spf13/cobra"

	m "veilpack.dev/pkg/veilpack/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <archive>",
		Short: "List the entries of a built archive",
		Long:  listLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			archive := m.Path(args[0])

			entries, err := inspector.ListArchive(ctx, archive)
			if err != nil {
				return err
			}

			return newCommandUI(cmd).DisplayArchiveEntries(ctx, archive, entries)
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
