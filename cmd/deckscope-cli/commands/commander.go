package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/use-agent/deckscope/bracket"
	"github.com/use-agent/deckscope/models"
)

var bracketsCmd = &cobra.Command{
	Use:   "brackets [commander]",
	Short: "List the average-deck brackets offered for a commander",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := scraperFrom(cmd).Discover(cmd.Context(), args[0], "")
		if err != nil {
			return describe(err)
		}
		out := cmd.OutOrStdout()
		if done, err := printJSON(out, res); done {
			return err
		}

		t := newTable(out)
		t.AppendHeader(table.Row{"Bracket", "Token"})
		for _, b := range res.AvailableBrackets {
			t.AppendRow(table.Row{bracket.Display(b), b})
		}
		t.Render()
		return nil
	},
}

var (
	tagsMax    int
	tagsBudget string
)

var tagsCmd = &cobra.Command{
	Use:   "tags [commander]",
	Short: "Print the themes and card sections of a commander",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, err := scraperFrom(cmd).CommanderSummary(cmd.Context(), args[0], tagsBudget, tagsMax)
		if err != nil {
			return describe(err)
		}
		out := cmd.OutOrStdout()
		if done, err := printJSON(out, sum); done {
			return err
		}

		heading.Fprintln(out, sum.Commander)
		t := newTable(out)
		t.AppendHeader(table.Row{"Tag", "Decks"})
		for _, tag := range sum.Tags {
			count := "-"
			if tag.DeckCount != nil {
				count = fmt.Sprint(*tag.DeckCount)
			}
			t.AppendRow(table.Row{tag.Name, count})
		}
		t.Render()

		for _, header := range slices.Sorted(maps.Keys(sum.Sections)) {
			heading.Fprintln(out, header)
			for _, name := range sum.Sections[header] {
				fmt.Fprintln(out, "  "+name)
			}
		}
		return nil
	},
}

var budgetCmd = &cobra.Command{
	Use:   "budget [commander]",
	Short: "Compare the budget and expensive average decks of a commander",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmp, err := scraperFrom(cmd).BudgetComparison(cmd.Context(), args[0])
		if err != nil {
			return describe(err)
		}
		out := cmd.OutOrStdout()
		if done, err := printJSON(out, cmp); done {
			return err
		}

		renderDiff(out, cmp.Commander, "Budget", "Expensive", cmp.Diff)
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [commander] [bracket] [bracket]",
	Short: "Compare the average decks of two brackets",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmp, err := scraperFrom(cmd).CompareBrackets(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return describe(err)
		}
		out := cmd.OutOrStdout()
		if done, err := printJSON(out, cmp); done {
			return err
		}

		first, second := bracket.Display(cmp.First.Bracket), bracket.Display(cmp.Second.Bracket)
		renderDiff(out, cmp.Commander, first, second, cmp.Diff)
		if len(cmp.Diff.QuantityChanges) > 0 {
			heading.Fprintln(out, "Quantity changes")
		}
		for _, q := range cmp.Diff.QuantityChanges {
			fmt.Fprintf(out, "  %s: %d → %d\n", q.Name, q.First, q.Second)
		}
		return nil
	},
}

// renderDiff prints the cards unique to each side next to each other.
func renderDiff(out io.Writer, commander, first, second string, diff models.DeckDiff) {
	heading.Fprintf(out, "%s: %d cards in common\n", commander, diff.CommonCount)
	t := newTable(out)
	t.AppendHeader(table.Row{first + " only", second + " only"})
	for i := 0; i < max(len(diff.OnlyInFirst), len(diff.OnlyInSecond)); i++ {
		row := table.Row{"", ""}
		if i < len(diff.OnlyInFirst) {
			row[0] = diff.OnlyInFirst[i].Name
		}
		if i < len(diff.OnlyInSecond) {
			row[1] = diff.OnlyInSecond[i].Name
		}
		t.AppendRow(row)
	}
	t.Render()
}

func init() {
	tagsCmd.Flags().IntVar(&tagsMax, "max", 0, "maximum number of tags (default: configured cap)")
	tagsCmd.Flags().StringVar(&tagsBudget, "budget", "", "read the budget or expensive page variant")
}
