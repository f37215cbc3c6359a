package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"ridepool/internal/models"
	"ridepool/internal/validators"
	"ridepool/pkg/logger"
)

type OfferRideAPI interface {
	ListCars(ctx context.Context) ([]models.Car, error)
	CreateRide(ctx context.Context, req *models.OfferRide) (*models.Ride, error)
}

type OfferRideService struct {
	api      OfferRideAPI
	currency string
	logger   *logger.Logger
	inFlight atomic.Bool
}

func NewOfferRideService(client OfferRideAPI, currency string, log *logger.Logger) *OfferRideService {
	if log == nil {
		log = logger.Nop()
	}
	return &OfferRideService{api: client, currency: currency, logger: log}
}

func (s *OfferRideService) Cars(ctx context.Context) ([]models.Car, error) {
	cars, err := s.api.ListCars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cars: %w", err)
	}
	return cars, nil
}

// Offer validates the ride locally and creates it.
func (s *OfferRideService) Offer(ctx context.Context, req *models.OfferRide) (*models.Ride, error) {
	if req.Currency == "" {
		req.Currency = s.currency
	}
	if errs := validators.ValidateOfferRide(req); len(errs) > 0 {
		return nil, errs
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrInFlight
	}
	defer s.inFlight.Store(false)

	ride, err := s.api.CreateRide(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to offer ride: %w", err)
	}

	s.logger.LogRideEvent(ride.ID, "ride_offered", map[string]interface{}{
		"seats_available": ride.SeatsAvailable,
		"start_time":      ride.StartTime,
	})
	return ride, nil
}
