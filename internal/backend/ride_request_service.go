package backend

import (
	"context"
	"fmt"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"
	"ridepool/internal/validators"
	"ridepool/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRequestService interface {
	Submit(ctx context.Context, riderID, rideID primitive.ObjectID, request *models.CreateRideRequest) (*models.RideRequest, error)
	ListForRide(ctx context.Context, driverID, rideID primitive.ObjectID) ([]*models.RideRequest, error)
	Latest(ctx context.Context, riderID, rideID primitive.ObjectID) (*models.RideRequest, error)
	Decide(ctx context.Context, driverID, requestID primitive.ObjectID, request *models.UpdateRideRequestStatus) (*models.RideRequest, error)
}

type rideRequestService struct {
	rideRepo    interfaces.RideRepository
	requestRepo interfaces.RideRequestRepository
	userRepo    interfaces.UserRepository
	notifier    Notifier
	devices     *DeviceNotifier
	logger      *logger.Logger
}

func NewRideRequestService(repos *interfaces.Repositories, notifier Notifier, devices *DeviceNotifier, log *logger.Logger) RideRequestService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &rideRequestService{
		rideRepo:    repos.Rides,
		requestRepo: repos.RideRequests,
		userRepo:    repos.Users,
		notifier:    notifier,
		devices:     devices,
		logger:      log,
	}
}

// Submit stores a pending request. A rider holding a pending or accepted
// request on the same ride gets *interfaces.DuplicateRequestError.
func (s *rideRequestService) Submit(ctx context.Context, riderID, rideID primitive.ObjectID, request *models.CreateRideRequest) (*models.RideRequest, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID == riderID {
		return nil, ErrOwnRide
	}
	if ride.Status != models.RideStatusScheduled {
		return nil, ErrRideClosed
	}
	if errs := validators.ValidateJoinRequest(request, ride); len(errs) > 0 {
		return nil, errs
	}
	if ride.SeatsAvailable <= 0 {
		return nil, ErrNoSeats
	}

	req := &models.RideRequest{
		RideID:      rideID,
		RiderID:     riderID,
		JoiningStop: request.JoiningStop,
		EndingStop:  request.EndingStop,
		Message:     request.Message,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.notifier.SendUserNotification(ride.DriverID, models.EventNewRideRequest, eventData(req))
	s.notifyDevice(ctx, ride.DriverID, "New ride request",
		fmt.Sprintf("Someone wants to ride from %s to %s", req.JoiningStop, req.EndingStop), req)

	s.logger.LogRideEvent(rideID, "ride_request_submitted", map[string]interface{}{
		"request_id": req.ID.Hex(),
		"rider_id":   riderID.Hex(),
	})
	return req, nil
}

func (s *rideRequestService) ListForRide(ctx context.Context, driverID, rideID primitive.ObjectID) ([]*models.RideRequest, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, ErrForbidden
	}
	return s.requestRepo.GetByRide(ctx, rideID)
}

func (s *rideRequestService) Latest(ctx context.Context, riderID, rideID primitive.ObjectID) (*models.RideRequest, error) {
	return s.requestRepo.GetLatest(ctx, rideID, riderID)
}

// Decide records the driver's answer. Accepting only checks that a seat is
// left; the driver's client decrements the count itself.
func (s *rideRequestService) Decide(ctx context.Context, driverID, requestID primitive.ObjectID, request *models.UpdateRideRequestStatus) (*models.RideRequest, error) {
	if errs := validators.ValidateRideRequestDecision(request); len(errs) > 0 {
		return nil, errs
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, ErrForbidden
	}
	if req.Status != models.RideRequestStatusPending {
		return nil, ErrAlreadyDecided
	}
	if request.Status == models.RideRequestStatusAccepted && ride.SeatsAvailable <= 0 {
		return nil, ErrNoSeats
	}

	updated, err := s.requestRepo.UpdateStatus(ctx, requestID, request.Status)
	if err != nil {
		return nil, err
	}

	s.notifier.SendUserNotification(updated.RiderID, models.EventRideRequestUpdated, eventData(updated))
	title := "Ride request declined"
	if updated.Status == models.RideRequestStatusAccepted {
		title = "Ride request accepted"
	}
	s.notifyDevice(ctx, updated.RiderID, title, fmt.Sprintf("%s to %s", ride.StartLocation, ride.EndLocation), updated)

	s.logger.LogRideEvent(ride.ID, "ride_request_"+string(updated.Status), map[string]interface{}{
		"request_id": updated.ID.Hex(),
		"rider_id":   updated.RiderID.Hex(),
	})
	return updated, nil
}

func (s *rideRequestService) notifyDevice(ctx context.Context, userID primitive.ObjectID, title, body string, req *models.RideRequest) {
	if s.devices == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return
	}
	s.devices.Notify(user, &DeviceAlert{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"ride_id":    req.RideID.Hex(),
			"request_id": req.ID.Hex(),
			"status":     string(req.Status),
		},
		CollapseKey: "ride_request_" + req.ID.Hex(),
	})
}
