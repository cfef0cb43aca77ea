package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/deckscope/bracket"
	"github.com/use-agent/deckscope/models"
	"github.com/use-agent/deckscope/scraper"
)

// toolError renders an engine error as a tool-level error so the model
// can read the failure kind.
func toolError(err error) *mcp.CallToolResult {
	e := models.AsExtractError(err)
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	return mcp.NewToolResultError(msg)
}

func handleAverageDeck(sc *scraper.Scraper) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := models.AverageDeckRequest{
			Commander: request.GetString("commander", ""),
			Bracket:   request.GetString("bracket", ""),
			SourceURL: request.GetString("url", ""),
		}
		if strings.TrimSpace(req.Commander) == "" && strings.TrimSpace(req.SourceURL) == "" {
			return mcp.NewToolResultError("commander or url is required"), nil
		}

		deck, _, err := sc.AverageDeck(ctx, req)
		if err != nil {
			return toolError(err), nil
		}
		var sb strings.Builder
		writeDeck(&sb, deck)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleAverageDeckMultiple(sc *scraper.Scraper) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		commander, err := request.RequireString("commander")
		if err != nil {
			return mcp.NewToolResultError("commander is required"), nil
		}
		brackets, err := request.RequireStringSlice("brackets")
		if err != nil || len(brackets) == 0 {
			return mcp.NewToolResultError("brackets is required and must be an array of strings"), nil
		}

		var sb strings.Builder
		for i, d := range sc.MultipleBrackets(ctx, commander, brackets) {
			if d.Error != nil {
				fmt.Fprintf(&sb, "--- [%d] %s FAILED: [%s] %s ---\n\n", i+1, d.Bracket, d.Error.Code, d.Error.Message)
				continue
			}
			fmt.Fprintf(&sb, "--- [%d] %s ---\n", i+1, d.Bracket)
			writeDeck(&sb, d.Deck)
			sb.WriteString("\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleDiscoverBrackets(sc *scraper.Scraper) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		commander, err := request.RequireString("commander")
		if err != nil {
			return mcp.NewToolResultError("commander is required"), nil
		}

		res, err := sc.Discover(ctx, commander, "")
		if err != nil {
			return toolError(err), nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Brackets for %s:\n", commander)
		for _, b := range res.AvailableBrackets {
			fmt.Fprintf(&sb, "- %s (%s)\n", bracket.Display(b), b)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleCommanderTags(sc *scraper.Scraper) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		commander, err := request.RequireString("commander")
		if err != nil {
			return mcp.NewToolResultError("commander is required"), nil
		}

		sum, err := sc.CommanderSummary(ctx, commander, request.GetString("budget", ""), request.GetInt("max", 0))
		if err != nil {
			return toolError(err), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Commander: %s\nSource: %s\n\nTags:\n", sum.Commander, sum.SourceURL)
		for _, t := range sum.Tags {
			if t.DeckCount != nil {
				fmt.Fprintf(&sb, "- %s (%d decks)\n", t.Name, *t.DeckCount)
			} else {
				fmt.Fprintf(&sb, "- %s\n", t.Name)
			}
		}
		for _, header := range slices.Sorted(maps.Keys(sum.Sections)) {
			fmt.Fprintf(&sb, "\n%s:\n", header)
			for _, name := range sum.Sections[header] {
				fmt.Fprintf(&sb, "- %s\n", name)
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleTheme(sc *scraper.Scraper) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tag, err := request.RequireString("tag")
		if err != nil {
			return mcp.NewToolResultError("tag is required"), nil
		}

		theme, err := sc.TagTheme(ctx, tag, request.GetString("colors", ""))
		if err != nil {
			return toolError(err), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s\n%s\nSource: %s\n\n", theme.Header, theme.Description, theme.SourceURL)
		for _, c := range theme.Cards {
			fmt.Fprintf(&sb, "- %s", c.Name)
			if c.Percent > 0 {
				fmt.Fprintf(&sb, " (%.0f%% of decks", c.Percent)
				if c.Synergy != 0 {
					fmt.Fprintf(&sb, ", synergy %+.0f%%", c.Synergy*100)
				}
				sb.WriteString(")")
			}
			sb.WriteString("\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleBudgetComparison(sc *scraper.Scraper) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		commander, err := request.RequireString("commander")
		if err != nil {
			return mcp.NewToolResultError("commander is required"), nil
		}

		cmp, err := sc.BudgetComparison(ctx, commander)
		if err != nil {
			return toolError(err), nil
		}

		var sb strings.Builder
		writeDiff(&sb, commander, "budget", "expensive", cmp.Diff)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleCompareBrackets(sc *scraper.Scraper) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		commander, err := request.RequireString("commander")
		if err != nil {
			return mcp.NewToolResultError("commander is required"), nil
		}
		first, err := request.RequireString("bracket1")
		if err != nil {
			return mcp.NewToolResultError("bracket1 is required"), nil
		}
		second, err := request.RequireString("bracket2")
		if err != nil {
			return mcp.NewToolResultError("bracket2 is required"), nil
		}

		cmp, err := sc.CompareBrackets(ctx, commander, first, second)
		if err != nil {
			return toolError(err), nil
		}

		var sb strings.Builder
		writeDiff(&sb, commander, cmp.First.Bracket, cmp.Second.Bracket, cmp.Diff)
		if cmp.First.Approximate || cmp.Second.Approximate {
			sb.WriteString("\nNote: a requested bracket was not offered; the closest available deck was used.\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func writeDiff(sb *strings.Builder, commander, first, second string, diff models.DeckDiff) {
	fmt.Fprintf(sb, "%s vs %s for %s (%d cards in common)\n", first, second, commander, diff.CommonCount)
	writeCards(sb, "\nOnly in "+first+":", diff.OnlyInFirst)
	writeCards(sb, "\nOnly in "+second+":", diff.OnlyInSecond)
	if len(diff.QuantityChanges) > 0 {
		sb.WriteString("\nQuantity changes:\n")
		for _, q := range diff.QuantityChanges {
			fmt.Fprintf(sb, "- %s: %d → %d\n", q.Name, q.First, q.Second)
		}
	}
}

func writeDeck(sb *strings.Builder, deck *models.AverageDeckResult) {
	fmt.Fprintf(sb, "Commander: %s\nBracket: %s\nSource: %s\n", deck.CommanderName, deck.Bracket, deck.SourceURL)
	if deck.Approximate {
		sb.WriteString("Note: the requested bracket was not offered; this is the closest available deck.\n")
	}
	if deck.CommanderCard != nil {
		fmt.Fprintf(sb, "Commander card: %s\n", deck.CommanderCard.Name)
	}
	for _, c := range deck.CoCommanders {
		fmt.Fprintf(sb, "Partner: %s\n", c.Name)
	}
	if len(deck.AvailableBrackets) > 0 {
		fmt.Fprintf(sb, "Available brackets: %s\n", strings.Join(deck.AvailableBrackets, ", "))
	}
	writeCards(sb, fmt.Sprintf("\nDeck (%d cards):", deck.TotalCards()), deck.DeckCards)
}

func writeCards(sb *strings.Builder, heading string, cards []models.NormalizedCard) {
	if len(cards) == 0 {
		return
	}
	sb.WriteString(heading + "\n")
	for _, c := range cards {
		fmt.Fprintf(sb, "%d %s\n", c.Quantity, c.Name)
	}
}
