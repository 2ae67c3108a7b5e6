package cli

import (
	"github.com/spf13/cobra"

	"foldsort/internal/renumber"
	"foldsort/internal/scan"
)

type planStepView struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Changes   bool   `json:"changes"`
	Reserved  bool   `json:"reserved,omitempty"`
	Collision bool   `json:"collision,omitempty"`
}

type planView struct {
	Dir     string         `json:"dir"`
	Changed bool           `json:"changed"`
	Steps   []planStepView `json:"steps"`
}

func newPlanCmd(app *App) *cobra.Command {
	clear := false
	cmd := &cobra.Command{
		Use:   "plan <dir>",
		Short: "Show the renames an apply would perform, without touching anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := dirArg(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			st, _, err := app.loadState()
			if err != nil {
				return writeErr(cmd, err)
			}
			entries, err := scan.List(dir, st.ReservedFor(dir))
			if err != nil {
				return writeErr(cmd, err)
			}
			var plan renumber.Plan
			if clear {
				plan = renumber.ClearPlan(entries)
			} else {
				plan = renumber.ComputePlan(entries)
			}
			return writeOut(cmd, app, newPlanView(dir, plan))
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "Plan prefix removal instead of renumbering")
	return cmd
}

func newPlanView(dir string, plan renumber.Plan) planView {
	v := planView{Dir: dir, Changed: plan.Changed(), Steps: make([]planStepView, 0, len(plan.Steps))}
	for _, s := range plan.Steps {
		v.Steps = append(v.Steps, planStepView{
			From:      s.Entry.CurrentName,
			To:        s.Target,
			Changes:   !s.Entry.Reserved && !s.Collision && s.Target != s.Entry.CurrentName,
			Reserved:  s.Entry.Reserved,
			Collision: s.Collision,
		})
	}
	return v
}
