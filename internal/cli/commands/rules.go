package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapqa/pkg/rules"
)

// NewRulesCommand creates the rules command, which lists the registered
// rule kinds and their parameter surface.
func NewRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List available rule kinds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Kind", "Severity", "Params", "Description"})
			for _, def := range rules.Kinds() {
				info := def.Info()
				params := strings.Join(info.RequiredParams, ", ")
				if len(info.OptionalParams) > 0 {
					if params != "" {
						params += ", "
					}
					params += "[" + strings.Join(info.OptionalParams, ", ") + "]"
				}
				t.AppendRow(table.Row{info.Kind, info.DefaultSeverity.String(), params, info.Description})
			}
			t.Render()
			return nil
		},
	}
}
