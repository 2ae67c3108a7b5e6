// Package cli wires the cobra command surface around the renumbering
// engine. Scriptable subcommands print JSON; running without a subcommand
// starts the interactive TUI.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"foldsort/internal/state"
	"foldsort/internal/tui"
)

type App struct {
	StatePath string
	Pretty    bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "foldsort [dir]",
		Short:        "Reorder and batch-renumber folders with numbered prefixes",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Interactive TUI on the last opened directory
  foldsort

  # Interactive TUI on a specific directory
  foldsort ~/Projects

  # Scriptable commands
  foldsort plan ~/Projects
  foldsort apply ~/Projects
  foldsort apply ~/Projects Fox Dog Cat
  foldsort clear ~/Projects
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, statePath, err := app.loadState()
			if err != nil {
				return writeErr(cmd, err)
			}
			dir := st.LastPath
			if len(args) == 1 {
				dir, err = dirArg(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			if dir == "" {
				return writeErr(cmd, errors.New("no directory given and none remembered; run `foldsort <dir>`"))
			}
			if _, err := os.Stat(dir); err != nil {
				return writeErr(cmd, fmt.Errorf("path does not exist: %s", dir))
			}
			return tui.Run(tui.Options{
				Dir:       dir,
				State:     st,
				StatePath: statePath,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&app.StatePath, "state", envOr("FOLDSORT_STATE", ""), "Path to the state file (default: per-user config dir)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newPlanCmd(app))
	cmd.AddCommand(newApplyCmd(app))
	cmd.AddCommand(newClearCmd(app))
	cmd.AddCommand(newReserveCmd(app, true))
	cmd.AddCommand(newReserveCmd(app, false))
	cmd.AddCommand(newMkdirCmd(app))
	cmd.AddCommand(newNotesCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newUndoCmd(app))

	return cmd
}

// loadState resolves the state file path and loads it (defaults when the
// file is missing).
func (app *App) loadState() (*state.State, string, error) {
	path := app.StatePath
	if path == "" {
		var err error
		path, err = state.DefaultPath()
		if err != nil {
			return nil, "", err
		}
	}
	st, err := state.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("load state %s: %w", path, err)
	}
	return st, path, nil
}

// dirArg normalizes and validates a directory argument.
func dirArg(arg string) (string, error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("path does not exist: %s", abs)
		}
		return "", err
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if app.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
