package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"foldsort/internal/renumber"
	"foldsort/internal/scan"
	"foldsort/internal/state"
)

func newReserveCmd(app *App, reserve bool) *cobra.Command {
	use, short := "reserve", "Mark folders as reserved (kept out of renumbering)"
	if !reserve {
		use, short = "unreserve", "Clear the reserved flag from folders"
	}
	return &cobra.Command{
		Use:   use + " <dir> <name...>",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := dirArg(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			st, statePath, err := app.loadState()
			if err != nil {
				return writeErr(cmd, err)
			}
			entries, err := scan.List(dir, st.ReservedFor(dir))
			if err != nil {
				return writeErr(cmd, err)
			}

			for _, name := range args[1:] {
				base, ok := findBase(entries, name)
				if !ok {
					return writeErr(cmd, fmt.Errorf("unknown folder: %q", name))
				}
				st.SetReserved(dir, base, reserve)
			}
			if err := state.Save(statePath, st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"dir":      dir,
				"reserved": st.Reserved[dir],
			})
		},
	}
}

// findBase matches a user-supplied name against current or base names and
// returns the base name the reserved set is keyed by.
func findBase(entries []renumber.Entry, name string) (string, bool) {
	for _, e := range entries {
		if e.CurrentName == name || e.BaseName == name {
			return e.BaseName, true
		}
	}
	return "", false
}
