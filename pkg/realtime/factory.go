package realtime

import (
	"context"
	"fmt"

	"ridepool/internal/config"
	"ridepool/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	TransportMemory    = "memory"
	TransportWebSocket = "websocket"
	TransportRedis     = "redis"
)

// New builds the bus selected by cfg.Transport. redisClient is only needed
// for the redis transport.
func New(ctx context.Context, cfg *config.RealtimeConfig, token string, redisClient *redis.Client, log *logger.Logger) (Bus, error) {
	switch cfg.Transport {
	case "", TransportMemory:
		return NewMemoryBus(), nil
	case TransportWebSocket:
		return DialWebSocket(ctx, cfg.WebSocketURL, token, log)
	case TransportRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis transport selected but redis is not configured")
		}
		return NewRedisBus(ctx, redisClient, cfg.RedisChannel, log)
	default:
		return nil, fmt.Errorf("unknown realtime transport %q", cfg.Transport)
	}
}
