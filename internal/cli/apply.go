package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"foldsort/internal/journal"
	"foldsort/internal/renumber"
	"foldsort/internal/scan"
	"foldsort/internal/state"
)

func newApplyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <dir> [name...]",
		Short: "Renumber folders; optional names give the complete desired order",
		Long: "Without names, apply normalizes numbering in the current listing order\n" +
			"(closing gaps left by deleted folders). With names, the given order is\n" +
			"applied; every folder must be named exactly once, by current or base name.",
		Args: cobra.MinimumNArgs(1),
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
			if len(args) > 1 {
				entries, err = reorderByNames(entries, args[1:])
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			plan := renumber.ComputePlan(entries)
			return app.runApply(cmd, st, statePath, dir, plan, journal.KindRenumber)
		},
	}
}

func newClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <dir>",
		Short: "Strip numeric prefixes from all non-reserved folders",
		Args:  cobra.ExactArgs(1),
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
			plan := renumber.ClearPlan(entries)
			return app.runApply(cmd, st, statePath, dir, plan, journal.KindClear)
		},
	}
}

// runApply executes a plan, journals the outcome, prints the result, and
// maps partial success onto a non-zero exit.
func (app *App) runApply(cmd *cobra.Command, st *state.State, statePath, dir string, plan renumber.Plan, kind string) error {
	res := renumber.NewApplier(dir).Apply(plan)
	app.record(cmd, statePath, kind, res)

	st.LastPath = dir
	if err := state.Save(statePath, st); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: save state: %v\n", err)
	}

	if err := writeOut(cmd, app, res); err != nil {
		return err
	}
	if res.Partial() {
		return fmt.Errorf("partial success: %d of %d entries failed", res.Failed, len(res.Entries))
	}
	return nil
}

// record appends the result to the apply journal. Journaling is best
// effort: a broken journal must never fail a rename batch.
func (app *App) record(cmd *cobra.Command, statePath, kind string, res renumber.Result) {
	j, err := journal.Open(context.Background(), journal.Path(statePath))
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: open journal: %v\n", err)
		return
	}
	defer j.Close()
	if _, err := j.Record(context.Background(), kind, res); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: record journal: %v\n", err)
	}
}

// reorderByNames rebuilds the entry order from an explicit name list. Names
// may be current on-disk names or base names; each folder must appear
// exactly once.
func reorderByNames(entries []renumber.Entry, names []string) ([]renumber.Entry, error) {
	byName := make(map[string]int, len(entries)*2)
	for i, e := range entries {
		byName[e.CurrentName] = i
		if _, dup := byName[e.BaseName]; !dup || e.BaseName == e.CurrentName {
			byName[e.BaseName] = i
		}
	}

	used := make([]bool, len(entries))
	out := make([]renumber.Entry, 0, len(entries))
	for _, n := range names {
		idx, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("unknown folder: %q", n)
		}
		if used[idx] {
			return nil, fmt.Errorf("folder named twice: %q", n)
		}
		used[idx] = true
		e := entries[idx]
		e.Position = len(out)
		out = append(out, e)
	}
	for i, u := range used {
		if !u {
			return nil, fmt.Errorf("order is incomplete: %q not listed", entries[i].CurrentName)
		}
	}
	return out, nil
}
