package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seatreserve/internal/http/middleware"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := h.Auth
	svc.RequestID = middleware.GetRequestID(c)
	res, err := svc.Login(req.Username, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
