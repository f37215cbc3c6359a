package handlers

import (
	"errors"
	"net/http"

	"ridepool/internal/backend"
	"ridepool/internal/repositories/interfaces"
	"ridepool/internal/utils"
	"ridepool/internal/validators"
	"ridepool/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondError maps service errors onto the API error envelope.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var validationErrs validators.ValidationErrors
	var duplicate *interfaces.DuplicateRequestError

	switch {
	case errors.As(err, &validationErrs):
		utils.ValidationErrorResponse(c, validationErrs.ToMap())
	case errors.As(err, &duplicate):
		utils.ErrorResponseWithDetails(c, http.StatusConflict, utils.CodeDuplicateRequest, utils.ErrDuplicateRequest, map[string]string{
			utils.DetailRequestedAt: utils.FormatTimeISO(duplicate.Existing.RequestedAt),
			utils.DetailRequestID:   duplicate.Existing.ID.Hex(),
		})
	case errors.Is(err, interfaces.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, utils.CodeNotFound, err.Error())
	case errors.Is(err, interfaces.ErrDuplicateEmail):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, backend.ErrInvalidCredentials):
		utils.ErrorResponse(c, http.StatusUnauthorized, utils.CodeUnauthorized, err.Error())
	case errors.Is(err, backend.ErrForbidden):
		utils.ErrorResponse(c, http.StatusForbidden, utils.CodeForbidden, err.Error())
	case errors.Is(err, backend.ErrNoSeats):
		utils.ErrorResponse(c, http.StatusConflict, utils.CodeNoSeats, utils.ErrNoSeatsAvailable)
	case errors.Is(err, backend.ErrAlreadyDecided), errors.Is(err, backend.ErrRideClosed), errors.Is(err, backend.ErrOwnRide):
		utils.ErrorResponse(c, http.StatusConflict, utils.CodeInvalidState, err.Error())
	case errors.Is(err, backend.ErrUnsupportedImage):
		utils.BadRequestResponse(c, err.Error())
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		utils.InternalServerErrorResponse(c)
	}
}

func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}
