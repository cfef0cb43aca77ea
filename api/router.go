package api

import (
	"github.com/gin-gonic/gin"
	"github.com/use-agent/deckscope/api/handler"
	"github.com/use-agent/deckscope/api/middleware"
	"github.com/use-agent/deckscope/config"
	"github.com/use-agent/deckscope/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → RequestID → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health is outside auth so monitoring probes always work.
func NewRouter(sc *scraper.Scraper, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health: no auth required.
	v1.GET("/health", handler.Health(sc))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Commanders
	commanders := protected.Group("/commanders/:name")
	commanders.GET("/deck", handler.Deck(sc))
	commanders.GET("/decks", handler.Decks(sc))
	commanders.GET("/brackets", handler.Brackets(sc))
	commanders.GET("/tags", handler.Tags(sc))
	commanders.GET("/budget-comparison", handler.BudgetComparison(sc))
	commanders.GET("/compare", handler.CompareBrackets(sc))

	// Direct deck page
	protected.GET("/deck", handler.DeckByURL(sc))

	// Themes
	protected.GET("/themes/:tag", handler.Theme(sc))

	return r
}
