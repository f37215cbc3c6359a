package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ridepool/internal/utils"
	"ridepool/pkg/cache"
	"ridepool/pkg/logger"
)

// CachedProvider keeps non-empty answers from the wrapped provider. Cache
// failures never fail a lookup.
type CachedProvider struct {
	next   Provider
	cache  cache.Cache
	ttl    time.Duration
	logger *logger.Logger
}

func NewCachedProvider(next Provider, c cache.Cache, ttl time.Duration, log *logger.Logger) *CachedProvider {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedProvider{next: next, cache: c, ttl: ttl, logger: log.WithField("component", "maps")}
}

func (c *CachedProvider) Name() string { return c.next.Name() }

func (c *CachedProvider) Geocode(ctx context.Context, address string) (*GeocodeResponse, error) {
	key := utils.CacheGeocodePrefix + normalizeKey(address)
	return cached(ctx, c, key, func(r *GeocodeResponse) bool { return len(r.Results) > 0 }, func() (*GeocodeResponse, error) {
		return c.next.Geocode(ctx, address)
	})
}

func (c *CachedProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResponse, error) {
	// ~11m grid; close enough points share an entry.
	key := fmt.Sprintf("%s%.4f,%.4f", utils.CacheReversePrefix, lat, lng)
	return cached(ctx, c, key, func(r *GeocodeResponse) bool { return len(r.Results) > 0 }, func() (*GeocodeResponse, error) {
		return c.next.ReverseGeocode(ctx, lat, lng)
	})
}

func (c *CachedProvider) SearchPlaces(ctx context.Context, request *PlaceSearchRequest) (*PlaceSearchResponse, error) {
	key := fmt.Sprintf("%s%s:%d", utils.CacheSearchPrefix, normalizeKey(request.Query), request.Limit)
	return cached(ctx, c, key, func(r *PlaceSearchResponse) bool { return len(r.Results) > 0 }, func() (*PlaceSearchResponse, error) {
		return c.next.SearchPlaces(ctx, request)
	})
}

func cached[T any](ctx context.Context, c *CachedProvider, key string, keep func(*T) bool, load func() (*T, error)) (*T, error) {
	var hit T
	err := c.cache.Get(ctx, key, &hit)
	if err == nil {
		return &hit, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
	}

	resp, err := load()
	if err != nil {
		return nil, err
	}

	if keep(resp) {
		if err := c.cache.Set(ctx, key, resp, c.ttl); err != nil {
			c.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
		}
	}
	return resp, nil
}

func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
