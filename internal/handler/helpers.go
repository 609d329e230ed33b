package handler

import (
	"net/http"
	"time"

	"basetrack/internal/apperr"
	"basetrack/internal/middleware"
	"basetrack/internal/model"
	"basetrack/internal/policy"
	"basetrack/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError translates a service error into the standard envelope. Field
// breakdowns from validation errors ride in the data payload.
func writeError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if appErr, ok := apperr.AsError(err); ok {
		if len(appErr.Fields) > 0 {
			c.JSON(status, response.FailWithDetails(status, string(appErr.Code), appErr.Message, appErr.Fields))
			return
		}
		c.JSON(status, response.Fail(status, string(appErr.Code), appErr.Message))
		return
	}
	c.JSON(status, response.Error(status, err.Error()))
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Fail(http.StatusBadRequest, string(apperr.CodeValidation), "invalid request payload: "+err.Error()))
}

// mustActor aborts with 401 when the authentication middleware did not run
// or did not attach an actor.
func mustActor(c *gin.Context) (policy.Actor, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Fail(http.StatusUnauthorized, string(apperr.CodeUnauthenticated), "authentication required"))
		return policy.Actor{}, false
	}
	return actor, true
}

// parseLedgerFilters reads the shared ledger query filters. Dates use the
// 2006-01-02 form; the end date is pushed to end of day so the range is
// inclusive on both sides.
func parseLedgerFilters(c *gin.Context) model.LedgerFilters {
	filters := model.LedgerFilters{
		Category: c.Query("category"),
		Status:   c.Query("status"),
	}
	if raw := c.Query("start_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filters.StartDate = &t
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filters.EndDate = &end
		}
	}
	return filters
}
