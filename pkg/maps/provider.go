package maps

import (
	"fmt"

	"ridepool/internal/config"
	"ridepool/pkg/cache"
	"ridepool/pkg/logger"
)

// NewFromConfig builds the provider chain named in cfg.Providers. Providers
// without credentials are skipped. When c is non-nil the chain is cached.
func NewFromConfig(cfg *config.MapsConfig, c cache.Cache, log *logger.Logger) (Provider, error) {
	var providers []Provider

	for _, name := range cfg.Providers {
		switch name {
		case "google":
			if cfg.GoogleMaps == nil || cfg.GoogleMaps.APIKey == "" {
				continue
			}
			p, err := NewGoogleMapsProvider(cfg.GoogleMaps.APIKey)
			if err != nil {
				return nil, err
			}
			providers = append(providers, p)
		case "mapbox":
			if cfg.Mapbox == nil || cfg.Mapbox.AccessToken == "" {
				continue
			}
			providers = append(providers, NewMapboxProvider(cfg.Mapbox.AccessToken))
		case "nominatim":
			providers = append(providers, NewNominatimProvider(cfg.Nominatim.BaseURL, cfg.Nominatim.UserAgent))
		default:
			return nil, fmt.Errorf("unknown maps provider %q", name)
		}
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no usable maps provider in %v", cfg.Providers)
	}

	var p Provider = NewFallbackProvider(log, providers...)
	if c != nil {
		p = NewCachedProvider(p, c, cfg.CacheTTL, log)
	}
	return p, nil
}
