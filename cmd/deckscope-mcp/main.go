package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/deckscope/config"
	"github.com/use-agent/deckscope/scraper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// stdout carries the MCP protocol.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	sc := scraper.NewFromConfig(cfg)
	defer sc.Close()

	s := server.NewMCPServer(
		"deckscope",
		"0.1.0",
		server.WithToolCapabilities(false),
	)
	registerTools(s, sc)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// registerTools adds every deck tool to s.
func registerTools(s *server.MCPServer, sc *scraper.Scraper) {
	averageDeckTool := mcp.NewTool("average_deck",
		mcp.WithDescription("Get the EDHREC average deck for a commander in a bracket. Returns the commander, the deck list with quantities, and the brackets the commander page offers."),
		mcp.WithString("commander",
			mcp.Description("Commander name, e.g. 'Atraxa, Praetors' Voice'. Required unless url is given."),
		),
		mcp.WithString("bracket",
			mcp.Description("Power bracket: exhibition, core, upgraded, optimized, cedh, or a sub-path such as 'exhibition/budget'. Aliases like 'precon' or '3' are accepted."),
		),
		mcp.WithString("url",
			mcp.Description("A direct average-deck page URL. Skips bracket discovery."),
		),
	)
	s.AddTool(averageDeckTool, handleAverageDeck(sc))

	multiTool := mcp.NewTool("average_deck_multiple",
		mcp.WithDescription("Get the average decks of one commander for several brackets at once. A failing bracket is reported without failing the others."),
		mcp.WithString("commander",
			mcp.Required(),
			mcp.Description("Commander name"),
		),
		mcp.WithArray("brackets",
			mcp.Required(),
			mcp.Description("Brackets to fetch, e.g. ['core', 'upgraded', 'cedh']"),
		),
	)
	s.AddTool(multiTool, handleAverageDeckMultiple(sc))

	bracketsTool := mcp.NewTool("discover_brackets",
		mcp.WithDescription("List the average-deck brackets EDHREC offers for a commander."),
		mcp.WithString("commander",
			mcp.Required(),
			mcp.Description("Commander name"),
		),
	)
	s.AddTool(bracketsTool, handleDiscoverBrackets(sc))

	tagsTool := mcp.NewTool("commander_tags",
		mcp.WithDescription("Get the community themes (tags) of a commander with deck counts, plus its high-synergy and top card sections."),
		mcp.WithString("commander",
			mcp.Required(),
			mcp.Description("Commander name"),
		),
		mcp.WithNumber("max",
			mcp.Description("Maximum number of tags (default: 20)"),
		),
		mcp.WithString("budget",
			mcp.Description("Read the budget or expensive variant of the commander page"),
			mcp.Enum("budget", "expensive"),
		),
	)
	s.AddTool(tagsTool, handleCommanderTags(sc))

	themeTool := mcp.NewTool("theme",
		mcp.WithDescription("Get the popular cards of an EDHREC theme, optionally narrowed to a color identity."),
		mcp.WithString("tag",
			mcp.Required(),
			mcp.Description("Theme name, e.g. 'Aristocrats' or '+1/+1 Counters'"),
		),
		mcp.WithString("colors",
			mcp.Description("Color identity letters, e.g. 'wubg'"),
		),
	)
	s.AddTool(themeTool, handleTheme(sc))

	budgetTool := mcp.NewTool("budget_comparison",
		mcp.WithDescription("Compare a commander's budget and expensive average decks: cards unique to each and changed quantities."),
		mcp.WithString("commander",
			mcp.Required(),
			mcp.Description("Commander name"),
		),
	)
	s.AddTool(budgetTool, handleBudgetComparison(sc))

	compareTool := mcp.NewTool("compare_brackets",
		mcp.WithDescription("Compare a commander's average decks in two brackets: cards unique to each, cards in common, and changed quantities."),
		mcp.WithString("commander",
			mcp.Required(),
			mcp.Description("Commander name"),
		),
		mcp.WithString("bracket1",
			mcp.Required(),
			mcp.Description("Baseline bracket, e.g. 'core'"),
		),
		mcp.WithString("bracket2",
			mcp.Required(),
			mcp.Description("Bracket to compare against, e.g. 'cedh'"),
		),
	)
	s.AddTool(compareTool, handleCompareBrackets(sc))
}
