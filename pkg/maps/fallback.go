package maps

import (
	"context"
	"errors"
	"fmt"

	"ridepool/pkg/logger"
)

// FallbackProvider asks each provider in turn and returns the first
// non-empty answer. An error from one provider is logged and the next one
// is tried.
type FallbackProvider struct {
	providers []Provider
	logger    *logger.Logger
}

func NewFallbackProvider(log *logger.Logger, providers ...Provider) *FallbackProvider {
	if log == nil {
		log = logger.Nop()
	}
	return &FallbackProvider{providers: providers, logger: log.WithField("component", "maps")}
}

func (f *FallbackProvider) Name() string { return "fallback" }

func (f *FallbackProvider) Geocode(ctx context.Context, address string) (*GeocodeResponse, error) {
	return firstGeocode(f, func(p Provider) (*GeocodeResponse, error) {
		return p.Geocode(ctx, address)
	})
}

func (f *FallbackProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResponse, error) {
	return firstGeocode(f, func(p Provider) (*GeocodeResponse, error) {
		return p.ReverseGeocode(ctx, lat, lng)
	})
}

func (f *FallbackProvider) SearchPlaces(ctx context.Context, request *PlaceSearchRequest) (*PlaceSearchResponse, error) {
	var errs []error
	for _, p := range f.providers {
		resp, err := p.SearchPlaces(ctx, request)
		if err != nil {
			f.logger.WithField("provider", p.Name()).WithError(err).Warn("Place search failed, trying next provider")
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if len(resp.Results) > 0 {
			return resp, nil
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &PlaceSearchResponse{}, nil
}

func firstGeocode(f *FallbackProvider, call func(Provider) (*GeocodeResponse, error)) (*GeocodeResponse, error) {
	var errs []error
	for _, p := range f.providers {
		resp, err := call(p)
		if err != nil {
			f.logger.WithField("provider", p.Name()).WithError(err).Warn("Geocoding failed, trying next provider")
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if len(resp.Results) > 0 {
			return resp, nil
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &GeocodeResponse{}, nil
}
