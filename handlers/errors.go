package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/csk7msd/student-college-allocation-system-dashboard/allocation"
	"github.com/csk7msd/student-college-allocation-system-dashboard/sessions"
	"github.com/gin-gonic/gin"
)

const (
	codeMissingField   = "MISSING_FIELD"
	codeRosterMismatch = "ROSTER_MISMATCH"
	codeOutOfRange     = "OUT_OF_RANGE"
	codeInvalidSession = "INVALID_SESSION"
	codeInvalidInput   = "INVALID_INPUT"
	codeParseError     = "PARSE_ERROR"
	codeNotFound       = "NOT_FOUND"
	codeInternal       = "INTERNAL_ERROR"
)

// respondError renders err as {"code", "error"} with the matching status.
// Anything unrecognised is logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	var outOfRange *sessions.OutOfRangeError
	switch {
	case errors.As(err, &outOfRange):
		c.JSON(http.StatusForbidden, gin.H{
			"code":        codeOutOfRange,
			"error":       err.Error(),
			"distance_km": outOfRange.DistanceKM,
			"radius_km":   outOfRange.RadiusKM,
		})
	case errors.Is(err, sessions.ErrRosterMismatch):
		c.JSON(http.StatusForbidden, gin.H{"code": codeRosterMismatch, "error": err.Error()})
	case errors.Is(err, sessions.ErrMissingField):
		c.JSON(http.StatusBadRequest, gin.H{"code": codeMissingField, "error": err.Error()})
	case errors.Is(err, sessions.ErrInvalidSession):
		c.JSON(http.StatusBadRequest, gin.H{"code": codeInvalidSession, "error": err.Error()})
	case errors.Is(err, sessions.ErrInvalidInput), errors.Is(err, allocation.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"code": codeInvalidInput, "error": err.Error()})
	case errors.Is(err, sessions.ErrParse), errors.Is(err, allocation.ErrParse):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"code": codeParseError, "error": err.Error()})
	case errors.Is(err, allocation.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": codeNotFound, "error": err.Error(), "found": false})
	default:
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": codeInternal, "error": "internal server error"})
	}
}
