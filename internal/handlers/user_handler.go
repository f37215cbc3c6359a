package handlers

import (
	"net/http"

	"ridepool/internal/backend"
	"ridepool/internal/middleware"
	"ridepool/internal/models"
	"ridepool/internal/utils"
	"ridepool/pkg/logger"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService   backend.UserService
	maxPhotoBytes int64
	logger        *logger.Logger
}

func NewUserHandler(userService backend.UserService, maxPhotoBytes int64, log *logger.Logger) *UserHandler {
	return &UserHandler{userService: userService, maxPhotoBytes: maxPhotoBytes, logger: log}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Profile retrieved successfully", user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var request models.UpdateProfile
	if !bindJSON(c, &request) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.UserID(c), &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Profile updated successfully", user)
}

// UploadPhoto takes a multipart "photo" field.
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxPhotoBytes+1<<20)
	header, err := c.FormFile("photo")
	if err != nil {
		utils.BadRequestResponse(c, "Missing photo upload")
		return
	}
	if header.Size > h.maxPhotoBytes {
		utils.ValidationErrorResponse(c, map[string]string{"photo": "Photo is too large"})
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Unreadable photo upload")
		return
	}
	defer file.Close()

	user, err := h.userService.UploadPhoto(c.Request.Context(), middleware.UserID(c), header.Filename, file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Photo uploaded successfully", user)
}

func (h *UserHandler) ListCars(c *gin.Context) {
	cars, err := h.userService.Cars(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Cars retrieved successfully", cars)
}

func (h *UserHandler) CreateCar(c *gin.Context) {
	var request models.CarInput
	if !bindJSON(c, &request) {
		return
	}

	car, err := h.userService.AddCar(c.Request.Context(), middleware.UserID(c), &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, "Car added successfully", car)
}

func (h *UserHandler) UpdateCar(c *gin.Context) {
	carID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var request models.CarInput
	if !bindJSON(c, &request) {
		return
	}

	car, err := h.userService.UpdateCar(c.Request.Context(), middleware.UserID(c), carID, &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Car updated successfully", car)
}

func (h *UserHandler) DeleteCar(c *gin.Context) {
	carID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteCar(c.Request.Context(), middleware.UserID(c), carID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.NoContentResponse(c)
}

func (h *UserHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.userService.Schedules(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Schedules retrieved successfully", schedules)
}

func (h *UserHandler) CreateSchedule(c *gin.Context) {
	var request models.CreateSchedule
	if !bindJSON(c, &request) {
		return
	}

	schedule, err := h.userService.AddSchedule(c.Request.Context(), middleware.UserID(c), &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, "Schedule created successfully", schedule)
}

func (h *UserHandler) ListLocations(c *gin.Context) {
	locations, err := h.userService.Locations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Locations retrieved successfully", locations)
}

func (h *UserHandler) SaveLocation(c *gin.Context) {
	var request models.SaveLocationRequest
	if !bindJSON(c, &request) {
		return
	}

	loc, err := h.userService.SaveLocation(c.Request.Context(), middleware.UserID(c), &request)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, "Location saved successfully", loc)
}
