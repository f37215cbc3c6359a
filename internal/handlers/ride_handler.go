package handlers

import (
	"ridepool/internal/backend"
	"ridepool/internal/middleware"
	"ridepool/internal/models"
	"ridepool/internal/utils"
	"ridepool/pkg/logger"

	"github.com/gin-gonic/gin"
)

type RideHandler struct {
	rideService    backend.RideService
	requestService backend.RideRequestService
	logger         *logger.Logger
}

func NewRideHandler(rideService backend.RideService, requestService backend.RideRequestService, log *logger.Logger) *RideHandler {
	return &RideHandler{
		rideService:    rideService,
		requestService: requestService,
		logger:         log,
	}
}

// SearchRides lists open rides, optionally filtered by ?from= and ?to=.
func (h *RideHandler) SearchRides(c *gin.Context) {
	params := &models.RideSearchParams{From: c.Query("from"), To: c.Query("to")}
	rides, err := h.rideService.Search(c.Request.Context(), params)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Rides retrieved successfully", rides)
}

func (h *RideHandler) MyRides(c *gin.Context) {
	rides, err := h.rideService.GetByDriver(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Rides retrieved successfully", rides)
}

func (h *RideHandler) OfferRide(c *gin.Context) {
	var request models.OfferRide
	if !bindJSON(c, &request) {
		return
	}

	ride, err := h.rideService.Offer(c.Request.Context(), middleware.UserID(c), &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, "Ride offered successfully", ride)
}

func (h *RideHandler) GetRide(c *gin.Context) {
	rideID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	ride, err := h.rideService.Get(c.Request.Context(), rideID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Ride retrieved successfully", ride)
}

func (h *RideHandler) UpdateRide(c *gin.Context) {
	rideID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var request models.RideUpdate
	if !bindJSON(c, &request) {
		return
	}

	ride, err := h.rideService.Update(c.Request.Context(), middleware.UserID(c), rideID, &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Ride updated successfully", ride)
}

func (h *RideHandler) SubmitRequest(c *gin.Context) {
	rideID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var request models.CreateRideRequest
	if !bindJSON(c, &request) {
		return
	}

	created, err := h.requestService.Submit(c.Request.Context(), middleware.UserID(c), rideID, &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, "Ride request sent", created)
}

func (h *RideHandler) ListRequests(c *gin.Context) {
	rideID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	requests, err := h.requestService.ListForRide(c.Request.Context(), middleware.UserID(c), rideID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Ride requests retrieved successfully", requests)
}

// MyRequest returns the caller's latest request on the ride in any status.
func (h *RideHandler) MyRequest(c *gin.Context) {
	rideID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	req, err := h.requestService.Latest(c.Request.Context(), middleware.UserID(c), rideID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Ride request retrieved successfully", req)
}

func (h *RideHandler) DecideRequest(c *gin.Context) {
	requestID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var request models.UpdateRideRequestStatus
	if !bindJSON(c, &request) {
		return
	}

	updated, err := h.requestService.Decide(c.Request.Context(), middleware.UserID(c), requestID, &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Ride request "+string(updated.Status), updated)
}
