package config

import (
	"time"
)

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Base URLs per environment. The Android emulator reaches the host
// machine through 10.0.2.2 instead of localhost.
var baseURLs = map[string]map[string]string{
	EnvDevelopment: {
		PlatformAndroid: "http://10.0.2.2:8080/api/v1",
		PlatformIOS:     "http://localhost:8080/api/v1",
		PlatformWeb:     "http://localhost:8080/api/v1",
	},
	EnvTesting: {
		PlatformAndroid: "https://staging.ridepool.app/api/v1",
		PlatformIOS:     "https://staging.ridepool.app/api/v1",
		PlatformWeb:     "https://staging.ridepool.app/api/v1",
	},
	EnvProduction: {
		PlatformAndroid: "https://api.ridepool.app/api/v1",
		PlatformIOS:     "https://api.ridepool.app/api/v1",
		PlatformWeb:     "https://api.ridepool.app/api/v1",
	},
}

// BaseURLFor resolves the API base URL for an environment/platform pair,
// falling back to the development web URL for unknown combinations.
func BaseURLFor(environment, platform string) string {
	if byPlatform, ok := baseURLs[environment]; ok {
		if url, ok := byPlatform[platform]; ok {
			return url
		}
		return byPlatform[PlatformWeb]
	}
	return baseURLs[EnvDevelopment][PlatformWeb]
}

func loadAPIConfig(app *AppConfig) *APIConfig {
	return &APIConfig{
		BaseURL: getEnv("API_BASE_URL", BaseURLFor(app.Environment, app.Platform)),
		Timeout: getEnvAsDuration("API_TIMEOUT", 15*time.Second),
	}
}
