package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var themeColors string

var themeCmd = &cobra.Command{
	Use:   "theme [tag]",
	Short: "Print the popular cards of a theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		theme, err := scraperFrom(cmd).TagTheme(cmd.Context(), args[0], themeColors)
		if err != nil {
			return describe(err)
		}
		out := cmd.OutOrStdout()
		if done, err := printJSON(out, theme); done {
			return err
		}

		heading.Fprintln(out, theme.Header)
		fmt.Fprintln(out, theme.Description)
		t := newTable(out)
		t.AppendHeader(table.Row{"Card", "Decks %", "Synergy %"})
		for _, c := range theme.Cards {
			t.AppendRow(table.Row{c.Name, fmt.Sprintf("%.0f", c.Percent), fmt.Sprintf("%+.0f", c.Synergy*100)})
		}
		t.Render()
		return nil
	},
}

func init() {
	themeCmd.Flags().StringVar(&themeColors, "colors", "", "color identity, e.g. wubg")
}
