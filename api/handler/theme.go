package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/deckscope/models"
	"github.com/use-agent/deckscope/scraper"
)

// Theme returns a handler for GET /api/v1/themes/:tag.
func Theme(sc *scraper.Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var q models.ThemeQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}

		theme, err := sc.TagTheme(c.Request.Context(), c.Param("tag"), q.Colors)
		if err != nil {
			status, detail := errorDetail(err)
			c.JSON(status, models.ThemeResponse{Success: false, Timing: timing(start), Error: detail})
			return
		}
		c.JSON(http.StatusOK, models.ThemeResponse{Success: true, Theme: theme, Timing: timing(start)})
	}
}
