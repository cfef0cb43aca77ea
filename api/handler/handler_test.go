package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/deckscope/cache"
	"github.com/use-agent/deckscope/models"
	"github.com/use-agent/deckscope/scraper"
)

const base = "https://site.test"

// pages is a PageFetcher serving fixed HTML by URL. Unknown URLs and
// entries in failures fail with the given kind.
type pages struct {
	html     map[string]string
	failures map[string]models.Kind
}

func (p pages) Fetch(_ context.Context, url string) (string, error) {
	if kind, ok := p.failures[url]; ok {
		return "", models.NewError(kind, "upstream failed", url, nil)
	}
	h, ok := p.html[url]
	if !ok {
		return "", models.NewStatusError(models.KindNotFound, url, http.StatusNotFound)
	}
	return h, nil
}

func deckPage(cards string) string {
	return `<html><body><script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"data":{"deck":[` +
		cards + `]}}}}</script></body></html>`
}

func testPages() pages {
	return pages{
		html: map[string]string{
			base + "/commanders/krenko-mob-boss": `<html><body>
<a href="/average-decks/krenko-mob-boss/core">Core</a>
<a href="/average-decks/krenko-mob-boss/upgraded">Upgraded</a>
<a href="/average-decks/krenko-mob-boss/exhibition/budget">Budget</a>
<div class="tag-cloud"><a href="/tags/goblins">Goblins (9,120)</a></div>
</body></html>`,
			base + "/average-decks/krenko-mob-boss/core": deckPage(
				`{"name":"Krenko, Mob Boss","isCommander":true},{"name":"Mountain","qty":32},"Goblin Matron"`),
			base + "/average-decks/krenko-mob-boss/exhibition/budget": deckPage(
				`{"name":"Krenko, Mob Boss","isCommander":true},{"name":"Mountain","qty":34},"Goblin Instigator"`),
			base + "/tags/goblins": `<html><head><title>Goblins</title></head><body>
<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"data":{"container":{"json_dict":{"cardlists":[
{"header":"Top Cards","cardviews":[{"name":"Goblin Chieftain","percent":48}]}]}}}}}}</script></body></html>`,
		},
		failures: map[string]models.Kind{
			base + "/average-decks/krenko-mob-boss/upgraded": models.KindTimeout,
		},
	}
}

func setupRouter(t *testing.T, withCache bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var c *cache.Cache
	if withCache {
		c = cache.New(cache.DefaultTTL, 32)
		t.Cleanup(c.Stop)
	}
	sc := scraper.New(testPages(), c, scraper.Options{BaseURL: base, DefaultBracket: "core"})

	r := gin.New()
	r.GET("/health", Health(sc))
	r.GET("/commanders/:name/deck", Deck(sc))
	r.GET("/commanders/:name/decks", Decks(sc))
	r.GET("/commanders/:name/brackets", Brackets(sc))
	r.GET("/commanders/:name/tags", Tags(sc))
	r.GET("/commanders/:name/compare", CompareBrackets(sc))
	r.GET("/deck", DeckByURL(sc))
	r.GET("/themes/:tag", Theme(sc))
	return r
}

func get(t *testing.T, r http.Handler, target string, out any) int {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
	return w.Code
}

func TestDeck_Success(t *testing.T) {
	r := setupRouter(t, true)

	var resp models.DeckResponse
	code := get(t, r, "/commanders/Krenko,%20Mob%20Boss/deck", &resp)
	require.Equal(t, http.StatusOK, code)
	require.True(t, resp.Success)
	require.Equal(t, "miss", resp.CacheStatus)
	require.Equal(t, 34, resp.TotalCards)
	require.Equal(t, "Krenko, Mob Boss", resp.Deck.CommanderCard.Name)
	require.Equal(t, []string{"core", "exhibition/budget", "upgraded"}, resp.Deck.AvailableBrackets)

	resp = models.DeckResponse{}
	get(t, r, "/commanders/Krenko,%20Mob%20Boss/deck?bracket=2", &resp)
	require.Equal(t, "hit", resp.CacheStatus)
}

func TestDeck_NoCacheStatusWithoutCache(t *testing.T) {
	r := setupRouter(t, false)

	var resp models.DeckResponse
	require.Equal(t, http.StatusOK, get(t, r, "/commanders/krenko-mob-boss/deck?bracket=core", &resp))
	require.Empty(t, resp.CacheStatus)
}

func TestDeck_ErrorStatuses(t *testing.T) {
	r := setupRouter(t, false)

	tests := []struct {
		target string
		status int
		code   models.Kind
	}{
		{"/commanders/Nobody/deck", http.StatusNotFound, models.KindNotFound},
		{"/commanders/krenko-mob-boss/deck?bracket=upgraded", http.StatusGatewayTimeout, models.KindTimeout},
		{"/commanders/%20/deck", http.StatusBadRequest, models.KindInvalidInput},
		{"/deck", http.StatusBadRequest, models.KindInvalidInput},
		{"/deck?url=not-a-url", http.StatusBadRequest, models.KindInvalidInput},
		{"/deck?url=https://elsewhere.test/average-decks/krenko-mob-boss/core", http.StatusBadRequest, models.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			var resp models.DeckResponse
			require.Equal(t, tt.status, get(t, r, tt.target, &resp))
			require.False(t, resp.Success)
			require.Equal(t, string(tt.code), resp.Error.Code)
		})
	}
}

func TestDeckByURL(t *testing.T) {
	r := setupRouter(t, false)

	var resp models.DeckResponse
	code := get(t, r, "/deck?url="+base+"/average-decks/krenko-mob-boss/core", &resp)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Krenko, Mob Boss", resp.Deck.CommanderName)
	require.Empty(t, resp.Deck.AvailableBrackets)
}

func TestCompareBrackets(t *testing.T) {
	r := setupRouter(t, false)

	var resp models.CompareResponse
	code := get(t, r, "/commanders/krenko-mob-boss/compare?brackets=core,exhibition-budget", &resp)
	require.Equal(t, http.StatusOK, code)
	require.True(t, resp.Success)
	require.Equal(t, "core", resp.Comparison.First.Bracket)
	require.Equal(t, "exhibition-budget", resp.Comparison.Second.Bracket)
	require.Equal(t, models.DeckDiff{
		OnlyInFirst:     []models.NormalizedCard{{Name: "Goblin Matron", Quantity: 1}},
		OnlyInSecond:    []models.NormalizedCard{{Name: "Goblin Instigator", Quantity: 1}},
		CommonCount:     1,
		QuantityChanges: []models.QuantityChange{{Name: "Mountain", First: 32, Second: 34}},
	}, resp.Comparison.Diff)
}

func TestCompareBrackets_Errors(t *testing.T) {
	r := setupRouter(t, false)

	tests := []struct {
		target string
		status int
		code   models.Kind
	}{
		{"/commanders/krenko-mob-boss/compare", http.StatusBadRequest, models.KindInvalidInput},
		{"/commanders/krenko-mob-boss/compare?brackets=core", http.StatusBadRequest, models.KindInvalidInput},
		{"/commanders/krenko-mob-boss/compare?brackets=core,CORE", http.StatusBadRequest, models.KindInvalidInput},
		{"/commanders/krenko-mob-boss/compare?brackets=core,upgraded", http.StatusGatewayTimeout, models.KindTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			var resp models.CompareResponse
			require.Equal(t, tt.status, get(t, r, tt.target, &resp))
			require.False(t, resp.Success)
			require.Equal(t, string(tt.code), resp.Error.Code)
		})
	}
}

func TestDecks_PartialFailure(t *testing.T) {
	r := setupRouter(t, false)

	var resp models.MultiDeckResponse
	code := get(t, r, "/commanders/krenko-mob-boss/decks?brackets=core,upgraded,,CORE", &resp)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "partial", resp.Status)
	require.Len(t, resp.Decks, 2)

	require.Equal(t, "core", resp.Decks[0].Bracket)
	require.NotNil(t, resp.Decks[0].Deck)
	require.Nil(t, resp.Decks[0].Error)

	require.Equal(t, "upgraded", resp.Decks[1].Bracket)
	require.Nil(t, resp.Decks[1].Deck)
	require.Equal(t, string(models.KindTimeout), resp.Decks[1].Error.Code)
}

func TestDecks_AllFailedAndMissingParam(t *testing.T) {
	r := setupRouter(t, false)

	var resp models.MultiDeckResponse
	get(t, r, "/commanders/nobody/decks?brackets=core", &resp)
	require.Equal(t, "failed", resp.Status)

	var bad models.ErrorResponse
	require.Equal(t, http.StatusBadRequest, get(t, r, "/commanders/nobody/decks", &bad))
}

func TestBrackets(t *testing.T) {
	r := setupRouter(t, false)

	var resp models.BracketsResponse
	require.Equal(t, http.StatusOK, get(t, r, "/commanders/krenko-mob-boss/brackets?bracket=exhibition-budget", &resp))
	require.Equal(t, base+"/average-decks/krenko-mob-boss/exhibition/budget", resp.Discovery.URL)
	require.False(t, resp.Discovery.Approximate)
}

func TestTags(t *testing.T) {
	r := setupRouter(t, false)

	var resp models.SummaryResponse
	require.Equal(t, http.StatusOK, get(t, r, "/commanders/krenko-mob-boss/tags", &resp))
	require.Len(t, resp.Summary.Tags, 1)
	require.Equal(t, "Goblins", resp.Summary.Tags[0].Name)
	require.Equal(t, 9120, *resp.Summary.Tags[0].DeckCount)

	var bad models.SummaryResponse
	require.Equal(t, http.StatusBadRequest, get(t, r, "/commanders/krenko-mob-boss/tags?budget=cheap", &bad))
}

func TestTheme(t *testing.T) {
	r := setupRouter(t, false)

	var resp models.ThemeResponse
	require.Equal(t, http.StatusOK, get(t, r, "/themes/Goblins", &resp))
	require.Equal(t, "goblins", resp.Theme.Theme)
	require.Equal(t, []models.ThemeCard{{Name: "Goblin Chieftain", Percent: 48}}, resp.Theme.Cards)
}

func TestHealth(t *testing.T) {
	r := setupRouter(t, true)

	var resp models.HealthResponse
	require.Equal(t, http.StatusOK, get(t, r, "/health", &resp))
	require.Equal(t, "healthy", resp.Status)
	require.Equal(t, Version, resp.Version)
}

func TestStatusFor(t *testing.T) {
	tests := map[models.Kind]int{
		models.KindNotFound:         http.StatusNotFound,
		models.KindParsing:          http.StatusNotFound,
		models.KindTimeout:          http.StatusGatewayTimeout,
		models.KindNetwork:          http.StatusBadGateway,
		models.KindServerError:      http.StatusBadGateway,
		models.KindUnexpectedStatus: http.StatusBadGateway,
		models.KindInvalidInput:     http.StatusBadRequest,
		models.KindRateLimited:      http.StatusTooManyRequests,
		models.KindUnauthorized:     http.StatusUnauthorized,
		models.KindInternal:         http.StatusInternalServerError,
	}
	for kind, want := range tests {
		require.Equal(t, want, StatusFor(kind), "kind %s", kind)
	}
}
