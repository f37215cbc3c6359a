package config

import "time"

type MapsConfig struct {
	// Providers are tried in order; the first one that returns a result wins.
	Providers  []string          `yaml:"providers"`
	GoogleMaps *GoogleMapsConfig `yaml:"google_maps"`
	Mapbox     *MapboxConfig     `yaml:"mapbox"`
	Nominatim  *NominatimConfig  `yaml:"nominatim"`
	CacheTTL   time.Duration     `yaml:"cache_ttl"`
	// AverageSpeedKMH feeds the naive travel-time estimate.
	AverageSpeedKMH float64 `yaml:"average_speed_kmh"`
}

type GoogleMapsConfig struct {
	APIKey string `yaml:"api_key"`
}

type MapboxConfig struct {
	AccessToken string `yaml:"access_token"`
}

type NominatimConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
}

func loadMapsConfig() *MapsConfig {
	return &MapsConfig{
		Providers: getEnvAsSlice("MAPS_PROVIDERS", []string{"google", "nominatim"}),
		GoogleMaps: &GoogleMapsConfig{
			APIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		},
		Mapbox: &MapboxConfig{
			AccessToken: getEnv("MAPBOX_ACCESS_TOKEN", ""),
		},
		Nominatim: &NominatimConfig{
			BaseURL:   getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: getEnv("NOMINATIM_USER_AGENT", "ridepool/1.0"),
		},
		CacheTTL:        getEnvAsDuration("MAPS_CACHE_TTL", 24*time.Hour),
		AverageSpeedKMH: getEnvAsFloat64("MAPS_AVERAGE_SPEED_KMH", 40),
	}
}
