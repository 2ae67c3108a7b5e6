package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"foldsort/internal/state"
)

func newNotesCmd(app *App) *cobra.Command {
	raw := false
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Print the note text (markdown, rendered for the terminal)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := app.loadState()
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(st.Notes) == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "(no notes)")
				return nil
			}
			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), st.Notes)
				return nil
			}
			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				return writeErr(cmd, err)
			}
			out, err := r.Render(st.Notes)
			if err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the raw markdown without rendering")

	cmd.AddCommand(&cobra.Command{
		Use:   "set <text>",
		Short: "Replace the note text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, statePath, err := app.loadState()
			if err != nil {
				return writeErr(cmd, err)
			}
			st.Notes = args[0]
			if err := state.Save(statePath, st); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	})
	return cmd
}
