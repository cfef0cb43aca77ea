package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/deckscope/models"
	"github.com/use-agent/deckscope/scraper"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
func Health(sc *scraper.Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:       "healthy",
			Uptime:       sc.Uptime().Round(time.Second).String(),
			Version:      Version,
			CacheEntries: sc.CacheEntries(),
		})
	}
}
