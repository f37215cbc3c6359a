package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ridepool/internal/models"
	"ridepool/pkg/logger"
)

type RideSearchAPI interface {
	SearchRides(ctx context.Context, params models.RideSearchParams) ([]models.Ride, error)
}

// RideSearch holds the fetched rides and the currently applied filters.
type RideSearch struct {
	api    RideSearchAPI
	logger *logger.Logger

	mu          sync.Mutex
	all         []models.Ride
	pickup      string
	destination string
}

func NewRideSearch(client RideSearchAPI, log *logger.Logger) *RideSearch {
	if log == nil {
		log = logger.Nop()
	}
	return &RideSearch{api: client, logger: log}
}

func (s *RideSearch) Fetch(ctx context.Context) error {
	rides, err := s.api.SearchRides(ctx, models.RideSearchParams{})
	if err != nil {
		return fmt.Errorf("failed to load rides: %w", err)
	}

	s.mu.Lock()
	s.all = rides
	s.mu.Unlock()

	s.logger.WithField("count", len(rides)).Debug("Rides fetched")
	return nil
}

// Apply sets the filters and returns the visible rides.
func (s *RideSearch) Apply(pickup, destination string) []models.Ride {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickup = pickup
	s.destination = destination
	return FilterRides(s.all, pickup, destination)
}

func (s *RideSearch) Rides() []models.Ride {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterRides(s.all, s.pickup, s.destination)
}

// FilterRides keeps the rides whose start and end locations contain the
// given filters, ignoring case. Empty filters match everything; whitespace
// is matched as typed.
func FilterRides(rides []models.Ride, pickup, destination string) []models.Ride {
	pickup = strings.ToLower(pickup)
	destination = strings.ToLower(destination)

	out := make([]models.Ride, 0, len(rides))
	for _, r := range rides {
		if pickup != "" && !strings.Contains(strings.ToLower(r.StartLocation), pickup) {
			continue
		}
		if destination != "" && !strings.Contains(strings.ToLower(r.EndLocation), destination) {
			continue
		}
		out = append(out, r)
	}
	return out
}
