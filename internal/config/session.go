package config

import (
	"os"
	"path/filepath"
)

type SessionConfig struct {
	TokenFile string `yaml:"token_file"`
}

func loadSessionConfig() *SessionConfig {
	return &SessionConfig{
		TokenFile: getEnv("SESSION_FILE", defaultSessionFile()),
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "ridepool", "session.json")
}
