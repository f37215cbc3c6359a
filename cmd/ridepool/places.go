package main

import (
	"context"
	"fmt"
	"math"
	"strings"

	"ridepool/internal/models"
	"ridepool/internal/services"
	"ridepool/internal/utils"
	"ridepool/pkg/cache"
	"ridepool/pkg/maps"
)

func (a *app) locationService() (*services.LocationService, error) {
	var c cache.Cache
	if a.cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(a.cfg.Redis)
		if err != nil {
			a.logger.WithError(err).Warn("Redis unavailable, geocoding without cache")
		} else {
			c = redisCache
		}
	}

	provider, err := maps.NewFromConfig(a.cfg.Maps, c, a.logger)
	if err != nil {
		return nil, err
	}
	return services.NewLocationService(provider, a.cfg.Maps.AverageSpeedKMH, a.logger), nil
}

func runLocate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("locate")
	lat := fs.Float64("lat", math.NaN(), "latitude for reverse lookup")
	lng := fs.Float64("lng", math.NaN(), "longitude for reverse lookup")
	query := fs.String("search", "", "search places")
	positional, err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	locations, err := a.locationService()
	if err != nil {
		return err
	}

	switch {
	case *query != "":
		places, err := locations.Search(ctx, *query, 5)
		if err != nil {
			return err
		}
		w := newTable(a.out)
		for _, p := range places {
			fmt.Fprintf(w, "%s\t%s\t%.5f,%.5f\n", p.Name, p.Address, p.Location.Latitude, p.Location.Longitude)
		}
		w.Flush()
	case !math.IsNaN(*lat) && !math.IsNaN(*lng):
		result, err := locations.Reverse(ctx, *lat, *lng)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, result.Address)
	case len(positional) > 0:
		result, err := locations.Resolve(ctx, strings.Join(positional, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s\n%.6f,%.6f\n", result.Address, result.Coordinates.Latitude, result.Coordinates.Longitude)
	default:
		return errUsage
	}
	return nil
}

func runDistance(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	locations, err := a.locationService()
	if err != nil {
		return err
	}

	from, err := locations.Resolve(ctx, args[0])
	if err != nil {
		return err
	}
	to, err := locations.Resolve(ctx, args[1])
	if err != nil {
		return err
	}
	fromLoc := toModelLocation(from.Coordinates)
	toLoc := toModelLocation(to.Coordinates)

	fmt.Fprintf(a.out, "%s -> %s\n", from.Address, to.Address)
	fmt.Fprintf(a.out, "%.1f km, about %s\n",
		locations.Distance(fromLoc, toLoc),
		utils.FormatDuration(locations.EstimateTravelTime(fromLoc, toLoc)))
	return nil
}

func runLocations(ctx context.Context, a *app, args []string) error {
	if len(args) > 0 {
		if args[0] != "save" {
			return errUsage
		}
		fs := newFlagSet("locations save")
		label := fs.String("label", "", "label, e.g. Home")
		address := fs.String("address", "", "address to geocode")
		if _, err := parseFlags(fs, args[1:]); err != nil {
			return err
		}
		if err := required(map[string]string{"label": *label, "address": *address}); err != nil {
			return err
		}

		locations, err := a.locationService()
		if err != nil {
			return err
		}
		result, err := locations.Resolve(ctx, *address)
		if err != nil {
			return err
		}
		saved, err := a.client.SaveLocation(ctx, &models.SaveLocationRequest{
			Label:     *label,
			Address:   result.Address,
			Latitude:  result.Coordinates.Latitude,
			Longitude: result.Coordinates.Longitude,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Saved %s: %s\n", saved.Label, saved.Address)
		return nil
	}

	saved, err := a.client.ListLocations(ctx)
	if err != nil {
		return err
	}
	if len(saved) == 0 {
		fmt.Fprintln(a.out, "No saved locations.")
		return nil
	}
	w := newTable(a.out)
	for _, l := range saved {
		fmt.Fprintf(w, "%s\t%s\t%.5f,%.5f\n", l.Label, l.Address, l.Latitude, l.Longitude)
	}
	w.Flush()
	return nil
}

func toModelLocation(l maps.Location) models.Location {
	return models.Location{Latitude: l.Latitude, Longitude: l.Longitude}
}
