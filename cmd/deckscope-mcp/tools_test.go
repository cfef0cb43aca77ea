package main

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/deckscope/models"
	"github.com/use-agent/deckscope/scraper"
)

type staticPages map[string]string

func (p staticPages) Fetch(_ context.Context, url string) (string, error) {
	if h, ok := p[url]; ok {
		return h, nil
	}
	return "", models.NewStatusError(models.KindNotFound, url, http.StatusNotFound)
}

func newToolScraper() *scraper.Scraper {
	return scraper.New(staticPages{
		"https://site.test/commanders/edgar-markov": `<a href="/average-decks/edgar-markov/core">Core</a>` +
			`<a href="/average-decks/edgar-markov/upgraded">Upgraded</a>`,
		"https://site.test/average-decks/edgar-markov/upgraded": `<script id="__NEXT_DATA__" type="application/json">` +
			`{"props":{"pageProps":{"data":{"deck":[{"name":"Edgar Markov","isCommander":true},{"name":"Swamp","qty":10},"Cordial Vampire"]}}}}` +
			`</script>`,
		"https://site.test/average-decks/edgar-markov/core": `<script id="__NEXT_DATA__" type="application/json">` +
			`{"props":{"pageProps":{"data":{"deck":[{"name":"Edgar Markov","isCommander":true},{"name":"Swamp","qty":12},"Bloodline Keeper"]}}}}` +
			`</script>`,
	}, nil, scraper.Options{BaseURL: "https://site.test", DefaultBracket: "core"})
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}

func TestAverageDeckTool(t *testing.T) {
	h := handleAverageDeck(newToolScraper())

	res, err := h(context.Background(), call(map[string]any{"commander": "Edgar Markov"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	out := resultText(t, res)
	require.True(t, strings.Contains(out, "Commander card: Edgar Markov"), out)
	require.True(t, strings.Contains(out, "Deck (14 cards):"), out)
	require.True(t, strings.Contains(out, "12 Swamp"), out)

	res, err = h(context.Background(), call(map[string]any{}))
	require.NoError(t, err)
	require.True(t, res.IsError)
}

func TestAverageDeckMultipleTool(t *testing.T) {
	h := handleAverageDeckMultiple(newToolScraper())

	res, err := h(context.Background(), call(map[string]any{
		"commander": "Edgar Markov",
		"brackets":  []any{"core", "cedh"},
	}))
	require.NoError(t, err)
	out := resultText(t, res)
	require.True(t, strings.Contains(out, "--- [1] core ---"), out)
	// cedh is not offered, so it falls back to core rather than failing.
	require.True(t, strings.Contains(out, "--- [2] cedh ---"), out)
	require.True(t, strings.Contains(out, "closest available deck"), out)
}

func TestToolErrorsCarryKind(t *testing.T) {
	h := handleDiscoverBrackets(newToolScraper())

	res, err := h(context.Background(), call(map[string]any{"commander": "Nobody"}))
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.True(t, strings.Contains(resultText(t, res), string(models.KindNotFound)))
}

func TestCompareBracketsTool(t *testing.T) {
	h := handleCompareBrackets(newToolScraper())

	res, err := h(context.Background(), call(map[string]any{
		"commander": "Edgar Markov",
		"bracket1":  "core",
		"bracket2":  "upgraded",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	out := resultText(t, res)
	require.True(t, strings.Contains(out, "core vs upgraded for Edgar Markov (1 cards in common)"), out)
	require.True(t, strings.Contains(out, "Only in core:\n1 Bloodline Keeper"), out)
	require.True(t, strings.Contains(out, "Only in upgraded:\n1 Cordial Vampire"), out)
	require.True(t, strings.Contains(out, "- Swamp: 12 → 10"), out)

	res, err = h(context.Background(), call(map[string]any{"commander": "Edgar Markov", "bracket1": "core"}))
	require.NoError(t, err)
	require.True(t, res.IsError)
}
