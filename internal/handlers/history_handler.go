package handlers

import (
	"ridepool/internal/backend"
	"ridepool/internal/middleware"
	"ridepool/internal/models"
	"ridepool/internal/utils"
	"ridepool/pkg/logger"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	historyService backend.HistoryService
	logger         *logger.Logger
}

func NewHistoryHandler(historyService backend.HistoryService, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{historyService: historyService, logger: log}
}

func (h *HistoryHandler) List(c *gin.Context) {
	entries, err := h.historyService.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Ride history retrieved successfully", entries)
}

func (h *HistoryHandler) Create(c *gin.Context) {
	var request models.CreateRideHistory
	if !bindJSON(c, &request) {
		return
	}

	entry, err := h.historyService.Create(c.Request.Context(), middleware.UserID(c), &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, "Ride history recorded", entry)
}

func (h *HistoryHandler) Update(c *gin.Context) {
	entryID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var request models.UpdateRideHistory
	if !bindJSON(c, &request) {
		return
	}

	entry, err := h.historyService.Update(c.Request.Context(), middleware.UserID(c), entryID, &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Ride history updated", entry)
}
