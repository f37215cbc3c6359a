package backend

import (
	"context"
	"errors"
	"strings"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"
	"ridepool/internal/validators"
	"ridepool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideService interface {
	Offer(ctx context.Context, driverID primitive.ObjectID, request *models.OfferRide) (*models.Ride, error)
	Search(ctx context.Context, params *models.RideSearchParams) ([]*models.Ride, error)
	GetByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.Ride, error)
	Get(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error)
	Update(ctx context.Context, driverID, rideID primitive.ObjectID, request *models.RideUpdate) (*models.Ride, error)
}

type rideService struct {
	rideRepo interfaces.RideRepository
	carRepo  interfaces.CarRepository
	notifier Notifier
	currency string
	logger   *logger.Logger
}

func NewRideService(repos *interfaces.Repositories, notifier Notifier, currency string, log *logger.Logger) RideService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &rideService{
		rideRepo: repos.Rides,
		carRepo:  repos.Cars,
		notifier: notifier,
		currency: currency,
		logger:   log,
	}
}

func (s *rideService) Offer(ctx context.Context, driverID primitive.ObjectID, request *models.OfferRide) (*models.Ride, error) {
	if errs := validators.ValidateOfferRide(request); len(errs) > 0 {
		return nil, errs
	}

	car, err := s.carRepo.GetByID(ctx, request.CarID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, validators.ValidationErrors{{Field: "car_id", Message: "Car not found"}}
		}
		return nil, err
	}
	if car.OwnerID != driverID {
		return nil, ErrForbidden
	}
	if request.SeatsAvailable > car.Seats {
		return nil, validators.ValidationErrors{{Field: "seats_available", Message: "More seats offered than the car has"}}
	}

	currency := strings.ToUpper(request.Currency)
	if currency == "" {
		currency = s.currency
	}
	stops := make([]models.Stop, 0, len(request.Stops))
	for _, stop := range request.Stops {
		stop.Name = strings.TrimSpace(stop.Name)
		stops = append(stops, stop)
	}

	ride := &models.Ride{
		DriverID:       driverID,
		CarID:          car.ID,
		StartLocation:  strings.TrimSpace(request.StartLocation),
		EndLocation:    strings.TrimSpace(request.EndLocation),
		Stops:          stops,
		StartTime:      request.StartTime.UTC(),
		SeatsAvailable: request.SeatsAvailable,
		Fare:           request.Fare,
		Currency:       currency,
		Status:         models.RideStatusScheduled,
	}
	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	s.logger.LogRideEvent(ride.ID, "ride_offered", map[string]interface{}{
		"driver_id": driverID.Hex(),
		"seats":     ride.SeatsAvailable,
	})
	return ride, nil
}

func (s *rideService) Search(ctx context.Context, params *models.RideSearchParams) ([]*models.Ride, error) {
	return s.rideRepo.Search(ctx, params)
}

func (s *rideService) GetByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.Ride, error) {
	return s.rideRepo.GetByDriver(ctx, driverID)
}

func (s *rideService) Get(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error) {
	return s.rideRepo.GetByID(ctx, rideID)
}

// Update applies the driver's changes. Seat accounting after an accept is
// sent by the client as a plain seats_available update.
func (s *rideService) Update(ctx context.Context, driverID, rideID primitive.ObjectID, request *models.RideUpdate) (*models.Ride, error) {
	if errs := validators.ValidateRideUpdate(request); len(errs) > 0 {
		return nil, errs
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if request.SeatsAvailable != nil {
		updates["seats_available"] = *request.SeatsAvailable
	}
	if request.Fare != nil {
		updates["fare"] = *request.Fare
	}
	if request.StartTime != nil {
		updates["start_time"] = request.StartTime.UTC()
	}
	if request.Status != nil {
		updates["status"] = *request.Status
	}
	if len(updates) == 0 {
		return ride, nil
	}

	if err := s.rideRepo.Update(ctx, rideID, updates); err != nil {
		return nil, err
	}
	updated, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if request.Status != nil && *request.Status != ride.Status {
		s.notifier.SendRideUpdate(rideID, models.EventRideStatusChanged, eventData(updated))
		s.logger.LogRideEvent(rideID, "ride_status_changed", map[string]interface{}{
			"from": string(ride.Status),
			"to":   string(updated.Status),
		})
	}
	return updated, nil
}
