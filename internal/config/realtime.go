package config

type RealtimeConfig struct {
	// Transport selects the event bus: memory, websocket or redis.
	Transport    string `yaml:"transport"`
	WebSocketURL string `yaml:"websocket_url"`
	RedisChannel string `yaml:"redis_channel"`
}

func loadRealtimeConfig() *RealtimeConfig {
	return &RealtimeConfig{
		Transport:    getEnv("REALTIME_TRANSPORT", "memory"),
		WebSocketURL: getEnv("REALTIME_WEBSOCKET_URL", "ws://localhost:8080/ws"),
		RedisChannel: getEnv("REALTIME_REDIS_CHANNEL", "ridepool:events"),
	}
}
