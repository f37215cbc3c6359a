package handlers

import (
	"ridepool/internal/backend"
	"ridepool/internal/models"
	"ridepool/internal/utils"
	"ridepool/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService backend.AuthService
	logger      *logger.Logger
}

func NewAuthHandler(authService backend.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var request models.RegisterRequest
	if !bindJSON(c, &request) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, "Registered successfully", resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var request models.LoginRequest
	if !bindJSON(c, &request) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Logged in successfully", resp)
}
