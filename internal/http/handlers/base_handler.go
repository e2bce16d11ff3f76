// Package handlers holds the HTTP request/response layer: JSON binding,
// input validation and error mapping. No rate logic lives here.
package handlers

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"freightrate/internal/engine"
)

type errorResponse struct {
	Error string `json:"error"`
}

// postalCodePattern accepts the postal code formats of all covered countries.
var postalCodePattern = regexp.MustCompile(`^[A-Za-z0-9\- ]{3,10}$`)

func isValidPostalCode(v string) bool {
	return postalCodePattern.MatchString(v)
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

// writeEngineError maps the engine error taxonomy onto HTTP statuses.
// Internal failures never leak their message to the client.
func writeEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
