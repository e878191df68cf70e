package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"seatreserve/internal/domain"
	"seatreserve/internal/http/middleware"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Reason    string `json:"reason,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, reason, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Reason:    reason,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Internal errors
// never leak their cause to the client.
func RespondDomainError(c *gin.Context, err error) {
	reason := domain.Reason(err)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "unauthorized", reason, err.Error(), nil)
	case domain.IsValidation(err):
		var ve domain.ValidationError
		errors.As(err, &ve)
		var details any
		if ve.Field != "" {
			details = gin.H{"field": ve.Field}
		}
		respondError(c, http.StatusBadRequest, "validation_error", reason, err.Error(), details)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", reason, err.Error(), nil)
	case domain.IsConflict(err):
		if errors.Is(err, domain.ErrTripBusy) {
			c.Header("Retry-After", "1")
		}
		respondError(c, http.StatusConflict, "conflict", reason, err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", reason, "internal error", nil)
	}
}
