package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koronatech/entryhub/internal/api/http/dto"
	"github.com/koronatech/entryhub/internal/operators"
)

type AuthHandler struct {
	operators *operators.Service
}

func NewAuthHandler(operatorService *operators.Service) *AuthHandler {
	return &AuthHandler{
		operators: operatorService,
	}
}

// Login exchanges operator credentials for a signed token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.operators.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, operators.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		slog.Error("Failed to log operator in", "error", err, "username", req.Username)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}
