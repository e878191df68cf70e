package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seatreserve/internal/services"
)

// Handlers serves the API over shared services. Per-request copies of the
// services carry the request id into their logs.
type Handlers struct {
	Store  services.Store
	Locker services.TripLocker
	Auth   services.AuthService
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "", "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "", "invalid payload", err.Error())
		return false
	}
	return true
}

// paramID parses a positive path id; it answers 400 itself on failure.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "", "invalid "+name, gin.H{"field": name})
		return 0, false
	}
	return id, true
}

// queryInt parses a required integer query parameter.
func queryInt(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "", "invalid "+name, gin.H{"field": name})
		return 0, false
	}
	return n, true
}
