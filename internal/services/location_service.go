package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/utils"
	"ridepool/internal/validators"
	"ridepool/pkg/logger"
	"ridepool/pkg/maps"
)

// LocationService backs the location picker: geocoding in both directions,
// place search, and display-only distance and time estimates.
type LocationService struct {
	provider        maps.Provider
	averageSpeedKMH float64
	logger          *logger.Logger
}

func NewLocationService(provider maps.Provider, averageSpeedKMH float64, log *logger.Logger) *LocationService {
	if log == nil {
		log = logger.Nop()
	}
	if averageSpeedKMH <= 0 {
		averageSpeedKMH = utils.DefaultAverageSpeedKMH
	}
	return &LocationService{provider: provider, averageSpeedKMH: averageSpeedKMH, logger: log.WithField("component", "location")}
}

// Resolve turns free text into the best matching coordinate.
func (s *LocationService) Resolve(ctx context.Context, address string) (*maps.GeocodeResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, validators.ValidationErrors{{Field: "address", Message: "address is required"}}
	}

	resp, err := s.provider.Geocode(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", address, err)
	}
	result, err := resp.First()
	if err != nil {
		return nil, fmt.Errorf("no location found for %q: %w", address, ErrNotFound)
	}
	return result, nil
}

// Reverse turns a picked coordinate into an address.
func (s *LocationService) Reverse(ctx context.Context, lat, lng float64) (*maps.GeocodeResult, error) {
	if !utils.IsValidCoordinates(lat, lng) {
		return nil, validators.ValidationErrors{{Field: "coordinates", Message: "Invalid GPS coordinates"}}
	}

	resp, err := s.provider.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		return nil, fmt.Errorf("failed to reverse geocode: %w", err)
	}
	result, err := resp.First()
	if err != nil {
		return nil, fmt.Errorf("no address found at %.5f,%.5f: %w", lat, lng, ErrNotFound)
	}
	return result, nil
}

func (s *LocationService) Search(ctx context.Context, query string, limit int) ([]maps.PlaceResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	resp, err := s.provider.SearchPlaces(ctx, &maps.PlaceSearchRequest{Query: query, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("place search failed: %w", err)
	}
	return resp.Results, nil
}

// Distance is the great-circle distance in kilometers.
func (s *LocationService) Distance(a, b models.Location) float64 {
	return utils.CalculateDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// EstimateTravelTime assumes a constant average speed along the straight
// line. It is for display only.
func (s *LocationService) EstimateTravelTime(a, b models.Location) time.Duration {
	minutes := utils.EstimateETAMinutes(s.Distance(a, b), s.averageSpeedKMH)
	return time.Duration(minutes) * time.Minute
}
