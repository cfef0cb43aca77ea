package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/deckscope/models"
	"github.com/use-agent/deckscope/scraper"
)

// maxBracketsPerRequest caps GET /commanders/:name/decks.
const maxBracketsPerRequest = 8

// Deck returns a handler for GET /api/v1/commanders/:name/deck.
func Deck(sc *scraper.Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var q models.DeckQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}

		respondDeck(c, sc, models.AverageDeckRequest{
			Commander: c.Param("name"),
			Bracket:   q.Bracket,
		}, start)
	}
}

// DeckByURL returns a handler for GET /api/v1/deck?url=.
func DeckByURL(sc *scraper.Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var q models.DeckURLQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}

		respondDeck(c, sc, models.AverageDeckRequest{
			Commander: q.Commander,
			Bracket:   q.Bracket,
			SourceURL: q.URL,
		}, start)
	}
}

func respondDeck(c *gin.Context, sc *scraper.Scraper, req models.AverageDeckRequest, start time.Time) {
	deck, cached, err := sc.AverageDeck(c.Request.Context(), req)
	if err != nil {
		status, detail := errorDetail(err)
		slog.Warn("average deck failed",
			"commander", req.Commander, "bracket", req.Bracket, "url", req.SourceURL, "error", err)
		c.JSON(status, models.DeckResponse{
			Success: false,
			Timing:  timing(start),
			Error:   detail,
		})
		return
	}

	resp := models.DeckResponse{
		Success:    true,
		Deck:       deck,
		TotalCards: deck.TotalCards(),
		Timing:     timing(start),
	}
	if sc.CacheEnabled() {
		resp.CacheStatus = "miss"
		if cached {
			resp.CacheStatus = "hit"
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Decks returns a handler for GET /api/v1/commanders/:name/decks?brackets=a,b.
// Brackets are fetched concurrently; one failing bracket does not fail
// the others.
func Decks(sc *scraper.Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		brackets := splitList(c.Query("brackets"))
		if len(brackets) == 0 {
			badRequest(c, errors.New("brackets is required, e.g. brackets=core,upgraded"))
			return
		}
		if len(brackets) > maxBracketsPerRequest {
			badRequest(c, errors.New("too many brackets in one request"))
			return
		}

		decks := sc.MultipleBrackets(c.Request.Context(), c.Param("name"), brackets)

		failed := 0
		for _, d := range decks {
			if d.Error != nil {
				failed++
			}
		}
		status := "completed"
		switch {
		case failed == len(decks):
			status = "failed"
		case failed > 0:
			status = "partial"
		}

		c.JSON(http.StatusOK, models.MultiDeckResponse{
			Status: status,
			Decks:  decks,
			Timing: timing(start),
		})
	}
}

// splitList splits a comma-separated query value, dropping blanks and
// repeats.
func splitList(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(p)]; dup {
			continue
		}
		seen[strings.ToLower(p)] = struct{}{}
		out = append(out, p)
	}
	return out
}
