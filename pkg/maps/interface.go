package maps

import (
	"context"
	"errors"
)

// ErrNoResults is returned when a provider answers but finds nothing.
var ErrNoResults = errors.New("no results")

// Provider resolves addresses and coordinates. Results are best effort and
// bounded by the upstream geocoder's precision.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, address string) (*GeocodeResponse, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResponse, error)
	SearchPlaces(ctx context.Context, request *PlaceSearchRequest) (*PlaceSearchResponse, error)
}

type GeocodeResponse struct {
	Results []GeocodeResult `json:"results"`
}

// First returns the best match or ErrNoResults.
func (r *GeocodeResponse) First() (*GeocodeResult, error) {
	if r == nil || len(r.Results) == 0 {
		return nil, ErrNoResults
	}
	return &r.Results[0], nil
}

type GeocodeResult struct {
	PlaceID     string   `json:"place_id"`
	Address     string   `json:"formatted_address"`
	Coordinates Location `json:"geometry"`
	Types       []string `json:"types"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type PlaceSearchRequest struct {
	Query    string   `json:"query"`
	Location Location `json:"location,omitempty"`
	Radius   int      `json:"radius,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

type PlaceSearchResponse struct {
	Results []PlaceResult `json:"results"`
}

type PlaceResult struct {
	PlaceID  string   `json:"place_id"`
	Name     string   `json:"name"`
	Address  string   `json:"formatted_address"`
	Location Location `json:"geometry"`
	Types    []string `json:"types"`
}
