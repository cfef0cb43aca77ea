package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/deckscope/models"
)

// StatusFor translates an error kind to an HTTP status code.
func StatusFor(kind models.Kind) int {
	switch kind {
	case models.KindNotFound, models.KindParsing:
		return http.StatusNotFound // 404
	case models.KindTimeout:
		return http.StatusGatewayTimeout // 504
	case models.KindNetwork, models.KindServerError, models.KindUnexpectedStatus:
		return http.StatusBadGateway // 502
	case models.KindInvalidInput:
		return http.StatusBadRequest // 400
	case models.KindRateLimited:
		return http.StatusTooManyRequests // 429
	case models.KindUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}

// errorDetail converts any error to its status and API detail.
func errorDetail(err error) (int, *models.ErrorDetail) {
	e := models.AsExtractError(err)
	return StatusFor(e.Kind), e.ToDetail()
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Error: &models.ErrorDetail{
			Code:    string(models.KindInvalidInput),
			Message: err.Error(),
		},
	})
}

func timing(start time.Time) models.TimingInfo {
	return models.TimingInfo{TotalMs: time.Since(start).Milliseconds()}
}
