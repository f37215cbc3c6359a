package validators

import (
	"strings"

	"ridepool/internal/models"
)

func ValidateOfferRide(req *models.OfferRide) ValidationErrors {
	errors := ValidateStruct(req)

	if req.StartLocation != "" && strings.EqualFold(strings.TrimSpace(req.StartLocation), strings.TrimSpace(req.EndLocation)) {
		errors = append(errors, ValidationError{
			Field:   "end_location",
			Message: "Start and end locations must be different",
		})
	}

	seen := make(map[string]bool, len(req.Stops))
	for _, stop := range req.Stops {
		name := strings.TrimSpace(stop.Name)
		if name == "" {
			errors = append(errors, ValidationError{Field: "stops", Message: "Every stop needs a name"})
			break
		}
		if seen[name] {
			errors = append(errors, ValidationError{Field: "stops", Message: "Stop names must be unique"})
			break
		}
		seen[name] = true
		if err := validate.Var(stop.Location, "coordinates"); err != nil {
			errors = append(errors, ValidationError{Field: "stops", Message: "Invalid GPS coordinates for stop " + name})
			break
		}
	}

	return errors
}

// ValidateJoinRequest checks the stop pair before anything goes over the
// wire. When the ride's stops are known, both stops must be on the ride and
// the joining stop must come first.
func ValidateJoinRequest(req *models.CreateRideRequest, ride *models.Ride) ValidationErrors {
	req.JoiningStop = strings.TrimSpace(req.JoiningStop)
	req.EndingStop = strings.TrimSpace(req.EndingStop)

	errors := ValidateStruct(req)
	if len(errors) > 0 {
		return errors
	}

	if req.JoiningStop == req.EndingStop {
		return ValidationErrors{{
			Field:   "ending_stop",
			Tag:     "nefield",
			Message: "Joining and ending stops must be different",
		}}
	}

	if ride == nil || len(ride.Stops) == 0 {
		return nil
	}

	joinIdx := ride.StopIndex(req.JoiningStop)
	endIdx := ride.StopIndex(req.EndingStop)
	if joinIdx < 0 {
		errors = append(errors, ValidationError{Field: "joining_stop", Message: "Joining stop is not on this ride"})
	}
	if endIdx < 0 {
		errors = append(errors, ValidationError{Field: "ending_stop", Message: "Ending stop is not on this ride"})
	}
	if joinIdx >= 0 && endIdx >= 0 && joinIdx > endIdx {
		errors = append(errors, ValidationError{Field: "ending_stop", Message: "Ending stop must come after the joining stop"})
	}

	return errors
}

func ValidateRideUpdate(req *models.RideUpdate) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateRideRequestDecision(req *models.UpdateRideRequestStatus) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateRideHistoryCreate(req *models.CreateRideHistory) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateRideHistoryUpdate(req *models.UpdateRideHistory) ValidationErrors {
	return ValidateStruct(req)
}
