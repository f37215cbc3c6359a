package validators

import (
	"strings"

	"ridepool/internal/models"
)

func ValidateRegister(req *models.RegisterRequest) ValidationErrors {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return ValidateStruct(req)
}

func ValidateLogin(req *models.LoginRequest) ValidationErrors {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return ValidateStruct(req)
}

func ValidateUpdateProfile(req *models.UpdateProfile) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateCar(req *models.CarInput) ValidationErrors {
	req.Plate = strings.ToUpper(strings.TrimSpace(req.Plate))
	return ValidateStruct(req)
}

func ValidateSchedule(req *models.CreateSchedule) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateSaveLocation(req *models.SaveLocationRequest) ValidationErrors {
	return ValidateStruct(req)
}
