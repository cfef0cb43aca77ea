package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/deckscope/models"
	"github.com/use-agent/deckscope/scraper"
)

// Brackets returns a handler for GET /api/v1/commanders/:name/brackets.
// The optional bracket query selects which page is reported as URL.
func Brackets(sc *scraper.Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		res, err := sc.Discover(c.Request.Context(), c.Param("name"), c.Query("bracket"))
		if err != nil {
			status, detail := errorDetail(err)
			c.JSON(status, models.BracketsResponse{Success: false, Timing: timing(start), Error: detail})
			return
		}
		c.JSON(http.StatusOK, models.BracketsResponse{Success: true, Discovery: &res, Timing: timing(start)})
	}
}

// Tags returns a handler for GET /api/v1/commanders/:name/tags.
func Tags(sc *scraper.Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var q models.TagsQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}

		sum, err := sc.CommanderSummary(c.Request.Context(), c.Param("name"), q.Budget, q.Max)
		if err != nil {
			status, detail := errorDetail(err)
			c.JSON(status, models.SummaryResponse{Success: false, Timing: timing(start), Error: detail})
			return
		}
		c.JSON(http.StatusOK, models.SummaryResponse{Success: true, Summary: sum, Timing: timing(start)})
	}
}

// BudgetComparison returns a handler for
// GET /api/v1/commanders/:name/budget-comparison.
func BudgetComparison(sc *scraper.Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		cmp, err := sc.BudgetComparison(c.Request.Context(), c.Param("name"))
		if err != nil {
			status, detail := errorDetail(err)
			c.JSON(status, models.BudgetResponse{Success: false, Timing: timing(start), Error: detail})
			return
		}
		c.JSON(http.StatusOK, models.BudgetResponse{Success: true, Comparison: cmp, Timing: timing(start)})
	}
}

// CompareBrackets returns a handler for
// GET /api/v1/commanders/:name/compare?brackets=a,b.
func CompareBrackets(sc *scraper.Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		brackets := splitList(c.Query("brackets"))
		if len(brackets) != 2 {
			badRequest(c, errors.New("brackets must name two different brackets, e.g. brackets=core,optimized"))
			return
		}

		cmp, err := sc.CompareBrackets(c.Request.Context(), c.Param("name"), brackets[0], brackets[1])
		if err != nil {
			status, detail := errorDetail(err)
			c.JSON(status, models.CompareResponse{Success: false, Timing: timing(start), Error: detail})
			return
		}
		c.JSON(http.StatusOK, models.CompareResponse{Success: true, Comparison: cmp, Timing: timing(start)})
	}
}
