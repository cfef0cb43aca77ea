package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/use-agent/deckscope/bracket"
	"github.com/use-agent/deckscope/models"
)

var (
	deckBracket string
	deckURL     string
)

var deckCmd = &cobra.Command{
	Use:   "deck [commander]",
	Short: "Print the average deck of a commander",
	Long: `Print the average deck of a commander in one bracket.

The bracket accepts canonical names (exhibition, core, upgraded, optimized,
cedh), sub-paths such as exhibition/budget, and aliases like precon or 3.
With --url the page is read directly and no commander name is needed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := models.AverageDeckRequest{Bracket: deckBracket, SourceURL: deckURL}
		if len(args) == 1 {
			req.Commander = args[0]
		}
		if req.Commander == "" && req.SourceURL == "" {
			return fmt.Errorf("a commander name or --url is required")
		}

		deck, _, err := scraperFrom(cmd).AverageDeck(cmd.Context(), req)
		if err != nil {
			return describe(err)
		}
		out := cmd.OutOrStdout()
		if done, err := printJSON(out, deck); done {
			return err
		}
		renderDeck(out, deck)
		return nil
	},
}

var decksBrackets []string

var decksCmd = &cobra.Command{
	Use:   "decks [commander]",
	Short: "Print the average decks of a commander for several brackets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(decksBrackets) == 0 {
			return fmt.Errorf("--brackets is required")
		}
		results := scraperFrom(cmd).MultipleBrackets(cmd.Context(), args[0], decksBrackets)

		out := cmd.OutOrStdout()
		if done, err := printJSON(out, results); done {
			return err
		}
		for _, r := range results {
			if r.Error != nil {
				warning.Fprintf(out, "%s: %s (%s)\n\n", r.Bracket, r.Error.Message, r.Error.Code)
				continue
			}
			renderDeck(out, r.Deck)
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	deckCmd.Flags().StringVarP(&deckBracket, "bracket", "b", "", "bracket to read (default: configured default bracket)")
	deckCmd.Flags().StringVar(&deckURL, "url", "", "direct average-deck page URL")

	decksCmd.Flags().StringSliceVarP(&decksBrackets, "brackets", "b", nil, "comma-separated brackets, e.g. core,upgraded")
}

func renderDeck(w io.Writer, deck *models.AverageDeckResult) {
	heading.Fprintf(w, "%s (%s)\n", deck.CommanderName, bracket.Display(bracket.Normalize(deck.Bracket)))
	fmt.Fprintln(w, deck.SourceURL)
	if deck.Approximate {
		warning.Fprintln(w, "requested bracket not offered; showing the closest available deck")
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Qty", "Card"})
	if deck.CommanderCard != nil {
		t.AppendRow(table.Row{deck.CommanderCard.Quantity, deck.CommanderCard.Name + " (commander)"})
	}
	for _, c := range deck.CoCommanders {
		t.AppendRow(table.Row{c.Quantity, c.Name + " (commander)"})
	}
	if deck.CommanderCard != nil || len(deck.CoCommanders) > 0 {
		t.AppendSeparator()
	}
	for _, c := range deck.DeckCards {
		t.AppendRow(table.Row{c.Quantity, c.Name})
	}
	t.AppendFooter(table.Row{deck.TotalCards(), "total"})
	t.Render()
}
