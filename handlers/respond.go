package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/auth"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/imports"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/ledger"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/puzzles"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/users"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/logger"
)

const internalError = "internal server error"

// statusFor maps domain errors to HTTP status codes. Unknown errors are upstream failures.
func statusFor(err error) int {
	switch {
	case errors.Is(err, puzzles.ErrNotFound),
		errors.Is(err, puzzles.ErrNoCandidates),
		errors.Is(err, users.ErrNotFound),
		errors.Is(err, imports.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, puzzles.ErrAlreadyAssigned),
		errors.Is(err, puzzles.ErrAlreadyExists),
		errors.Is(err, users.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, puzzles.ErrInvalidDifficulty),
		errors.Is(err, puzzles.ErrInvalidGrid),
		errors.Is(err, puzzles.ErrInvalidPuzzle),
		errors.Is(err, users.ErrInvalidInput),
		errors.Is(err, ledger.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, imports.ErrNoObjectStore):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes {error} for err. Upstream failures are logged and redacted.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.WithFields(map[string]interface{}{
			"method": c.Request.Method,
			"route":  c.FullPath(),
		}).Errorf("request failed: %v", err)
		c.JSON(status, gin.H{"error": internalError})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// denied writes the response for a decision that is not Authorized and reports whether it did.
// Every protected handler calls it before touching a store.
func denied(c *gin.Context, d auth.Decision) bool {
	switch d.Status {
	case auth.Authorized:
		return false
	case auth.Unauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case auth.Forbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		logger.Errorf("authorization check failed on %s %s: %v", c.Request.Method, c.FullPath(), d.Err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalError})
	}
	return true
}
