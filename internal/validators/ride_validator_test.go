package validators

import (
	"testing"
	"time"

	"ridepool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testRide() *models.Ride {
	return &models.Ride{
		ID: primitive.NewObjectID(),
		Stops: []models.Stop{
			{Name: "Central Station", Location: models.Location{Latitude: 52.379, Longitude: 4.900}},
			{Name: "Museumplein", Location: models.Location{Latitude: 52.357, Longitude: 4.881}},
			{Name: "Schiphol", Location: models.Location{Latitude: 52.310, Longitude: 4.768}},
		},
	}
}

func TestValidateJoinRequest(t *testing.T) {
	tests := []struct {
		name      string
		joining   string
		ending    string
		ride      *models.Ride
		wantField string
	}{
		{name: "valid pair", joining: "Central Station", ending: "Schiphol", ride: testRide()},
		{name: "missing joining stop", joining: "", ending: "Schiphol", wantField: "joining_stop"},
		{name: "missing ending stop", joining: "Museumplein", ending: "  ", wantField: "ending_stop"},
		{name: "same stop", joining: "Schiphol", ending: "Schiphol", wantField: "ending_stop"},
		{name: "unknown stop", joining: "Zaandam", ending: "Schiphol", ride: testRide(), wantField: "joining_stop"},
		{name: "wrong order", joining: "Schiphol", ending: "Central Station", ride: testRide(), wantField: "ending_stop"},
		{name: "stops unknown without ride", joining: "Anywhere", ending: "Elsewhere"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &models.CreateRideRequest{JoiningStop: tt.joining, EndingStop: tt.ending}
			errs := ValidateJoinRequest(req, tt.ride)

			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			if !errs.Has(tt.wantField) {
				t.Fatalf("expected error on %s, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidateOfferRide(t *testing.T) {
	valid := func() *models.OfferRide {
		return &models.OfferRide{
			CarID:          primitive.NewObjectID(),
			StartLocation:  "Utrecht",
			EndLocation:    "Amsterdam",
			StartTime:      time.Now().Add(2 * time.Hour),
			SeatsAvailable: 3,
			Fare:           12.5,
		}
	}

	if errs := ValidateOfferRide(valid()); len(errs) != 0 {
		t.Fatalf("valid offer rejected: %v", errs)
	}

	tests := []struct {
		name      string
		mutate    func(*models.OfferRide)
		wantField string
	}{
		{"zero seats", func(r *models.OfferRide) { r.SeatsAvailable = 0 }, "seats_available"},
		{"too many seats", func(r *models.OfferRide) { r.SeatsAvailable = 9 }, "seats_available"},
		{"negative fare", func(r *models.OfferRide) { r.Fare = -1 }, "fare"},
		{"no car", func(r *models.OfferRide) { r.CarID = primitive.NilObjectID }, "car_id"},
		{"past start", func(r *models.OfferRide) { r.StartTime = time.Now().Add(-time.Hour) }, "start_time"},
		{"same endpoints", func(r *models.OfferRide) { r.EndLocation = " utrecht " }, "end_location"},
		{"bad stop coordinates", func(r *models.OfferRide) {
			r.Stops = []models.Stop{{Name: "Nowhere", Location: models.Location{Latitude: 120}}}
		}, "stops"},
		{"duplicate stops", func(r *models.OfferRide) {
			r.Stops = []models.Stop{{Name: "A"}, {Name: "A"}}
		}, "stops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			errs := ValidateOfferRide(req)
			if !errs.Has(tt.wantField) {
				t.Fatalf("expected error on %s, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidationErrorsHelpers(t *testing.T) {
	var empty ValidationErrors
	if empty.Err() != nil {
		t.Fatal("empty list should yield a nil error")
	}

	errs := ValidationErrors{
		{Field: "seats_available", Message: "too many"},
		{Field: "seats_available", Message: "second message"},
		{Field: "fare", Message: "negative"},
	}
	m := errs.ToMap()
	if m["seats_available"] != "too many" || m["fare"] != "negative" {
		t.Fatalf("unexpected map: %v", m)
	}
	if errs.Err() == nil {
		t.Fatal("non-empty list should be an error")
	}
}

func TestValidateScheduleAndCar(t *testing.T) {
	sched := &models.CreateSchedule{DayOfWeek: time.Monday, DepartureTime: "25:00", From: "A", To: "B"}
	if errs := ValidateSchedule(sched); !errs.Has("departure_time") {
		t.Fatalf("expected departure_time error, got %v", errs)
	}

	car := &models.CarInput{Make: "Toyota", Model: "Prius", Color: "blue", Plate: "ab-12-cd", Seats: 4}
	if errs := ValidateCar(car); len(errs) != 0 {
		t.Fatalf("valid car rejected: %v", errs)
	}
	if car.Plate != "AB-12-CD" {
		t.Fatalf("plate not normalized: %q", car.Plate)
	}
}
