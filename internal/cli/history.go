package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"foldsort/internal/journal"
	"foldsort/internal/renumber"
)

func newHistoryCmd(app *App) *cobra.Command {
	limit := 10
	cmd := &cobra.Command{
		Use:   "history <dir>",
		Short: "Show recent apply batches for a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := dirArg(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			_, statePath, err := app.loadState()
			if err != nil {
				return writeErr(cmd, err)
			}
			j, err := journal.Open(cmd.Context(), journal.Path(statePath))
			if err != nil {
				return writeErr(cmd, err)
			}
			defer j.Close()

			batches, err := j.Recent(cmd.Context(), dir, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			if batches == nil {
				batches = []journal.Apply{}
			}
			return writeOut(cmd, app, batches)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of batches to show")
	return cmd
}

func newUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <dir>",
		Short: "Reverse the renames of the most recent apply in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := dirArg(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			_, statePath, err := app.loadState()
			if err != nil {
				return writeErr(cmd, err)
			}
			j, err := journal.Open(context.Background(), journal.Path(statePath))
			if err != nil {
				return writeErr(cmd, err)
			}
			defer j.Close()

			last, err := j.LastUndoable(context.Background(), dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			if last == nil {
				return writeErr(cmd, errors.New("nothing to undo for this directory"))
			}

			plan := journal.UndoPlan(last)
			res := renumber.NewApplier(dir).Apply(plan)
			if _, err := j.Record(context.Background(), journal.KindUndo, res); err != nil {
				// Best effort, same as forward applies.
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: record journal: %v\n", err)
			}
			if err := writeOut(cmd, app, res); err != nil {
				return err
			}
			if res.Partial() {
				return errors.New("undo was only partially applied; see entries for details")
			}
			return nil
		},
	}
}
