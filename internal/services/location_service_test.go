package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/validators"
	"ridepool/pkg/maps"
)

// gridGeocoder names each point after its coordinates rounded to four
// decimals, so reverse then forward loses at most ~5m.
type gridGeocoder struct{}

func (gridGeocoder) Name() string { return "grid" }

func (gridGeocoder) Geocode(ctx context.Context, address string) (*maps.GeocodeResponse, error) {
	var lat, lng float64
	if _, err := fmt.Sscanf(address, "Grid %f %f", &lat, &lng); err != nil {
		return &maps.GeocodeResponse{}, nil
	}
	return &maps.GeocodeResponse{Results: []maps.GeocodeResult{{Address: address, Coordinates: maps.Location{Latitude: lat, Longitude: lng}}}}, nil
}

func (gridGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*maps.GeocodeResponse, error) {
	address := fmt.Sprintf("Grid %.4f %.4f", lat, lng)
	return &maps.GeocodeResponse{Results: []maps.GeocodeResult{{Address: address, Coordinates: maps.Location{Latitude: lat, Longitude: lng}}}}, nil
}

func (gridGeocoder) SearchPlaces(ctx context.Context, request *maps.PlaceSearchRequest) (*maps.PlaceSearchResponse, error) {
	return &maps.PlaceSearchResponse{Results: []maps.PlaceResult{{Name: request.Query}}}, nil
}

func TestReverseThenForwardRoundTrip(t *testing.T) {
	svc := NewLocationService(gridGeocoder{}, 40, nil)
	ctx := context.Background()

	points := []models.Location{
		{Latitude: 52.370216, Longitude: 4.895168},
		{Latitude: -33.868820, Longitude: 151.209296},
		{Latitude: 40.712776, Longitude: -74.005974},
	}

	for _, p := range points {
		rev, err := svc.Reverse(ctx, p.Latitude, p.Longitude)
		if err != nil {
			t.Fatalf("Reverse(%v): %v", p, err)
		}
		fwd, err := svc.Resolve(ctx, rev.Address)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", rev.Address, err)
		}
		back := models.Location{Latitude: fwd.Coordinates.Latitude, Longitude: fwd.Coordinates.Longitude}
		if d := svc.Distance(p, back); d > 0.05 {
			t.Fatalf("round trip of %v drifted %.3f km", p, d)
		}
	}
}

func TestResolveUnknownAddress(t *testing.T) {
	svc := NewLocationService(gridGeocoder{}, 40, nil)

	if _, err := svc.Resolve(context.Background(), "nowhere in particular"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	var verrs validators.ValidationErrors
	if _, err := svc.Resolve(context.Background(), "  "); !errors.As(err, &verrs) {
		t.Fatalf("empty address err = %v", err)
	}
	if _, err := svc.Reverse(context.Background(), 91, 0); !errors.As(err, &verrs) {
		t.Fatalf("bad coordinates err = %v", err)
	}
}

func TestDistanceAndTravelTime(t *testing.T) {
	svc := NewLocationService(gridGeocoder{}, 60, nil)
	utrecht := models.Location{Latitude: 52.0907, Longitude: 5.1214}
	amsterdam := models.Location{Latitude: 52.3676, Longitude: 4.9041}

	d := svc.Distance(utrecht, amsterdam)
	if math.Abs(d-34.0) > 1.5 {
		t.Fatalf("distance = %.2f km, want about 34", d)
	}

	eta := svc.EstimateTravelTime(utrecht, amsterdam)
	if eta < 30*time.Minute || eta > 36*time.Minute {
		t.Fatalf("eta = %s", eta)
	}

	if svc.EstimateTravelTime(utrecht, utrecht) != 0 {
		t.Fatal("zero distance should take no time")
	}
}
