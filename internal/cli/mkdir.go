package cli

import (
	"github.com/spf13/cobra"

	"foldsort/internal/scan"
)

func newMkdirCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <dir> <name>",
		Short: "Create a folder, adding a (n) suffix when the name is taken",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := dirArg(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			created, err := scan.CreateFolder(dir, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]string{
				"dir":     dir,
				"created": created,
			})
		},
	}
}
