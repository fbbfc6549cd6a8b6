package client

import (
	"context"

	"go.uber.org/zap"

	"github.com/aklilumengesha/Battery-Swap/internal/geocode"
)

// Location is a resolved place with human-readable name.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DefaultLocation is used when no stored location exists and coordinates
// cannot be obtained.
var DefaultLocation = Location{
	Name:      "Kochi, Kerala",
	Latitude:  9.9312,
	Longitude: 76.2673,
}

// CoordinateSource yields the device's current coordinates.
type CoordinateSource interface {
	Coordinates(ctx context.Context) (latitude, longitude float64, err error)
}

// Resolver produces a Location for station lookups. A previously stored
// location is returned as-is without consulting the device or the geocoder;
// staleness is accepted.
type Resolver struct {
	store    KeyValue
	source   CoordinateSource
	geocoder geocode.Geocoder
	logger   *zap.Logger
}

// NewResolver builds a Resolver over the long-lived store. source and
// geocoder may be nil, in which case resolution degrades to the stored or
// default location.
func NewResolver(store KeyValue, source CoordinateSource, geocoder geocode.Geocoder, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{store: store, source: source, geocoder: geocoder, logger: logger}
}

// Resolve always returns a usable Location. Failures along the way are
// logged and absorbed into the fallback chain: stored location first, then
// DefaultLocation.
func (r *Resolver) Resolve(ctx context.Context) Location {
	var stored Location
	hasStored := r.store.Get(KeyLocation, &stored)
	if hasStored {
		return stored
	}

	fallback := func() Location {
		if hasStored {
			return stored
		}
		return DefaultLocation
	}

	if r.source == nil {
		return fallback()
	}

	lat, lon, err := r.source.Coordinates(ctx)
	if err != nil {
		r.logger.Warn("device coordinates unavailable", zap.Error(err))
		return fallback()
	}

	name := ""
	if r.geocoder != nil {
		result, err := r.geocoder.Reverse(ctx, lat, lon)
		if err != nil {
			r.logger.Warn("reverse geocode failed", zap.Error(err))
			return fallback()
		}
		name = geocode.PlaceName(result.DisplayName)
	}

	resolved := Location{Name: name, Latitude: lat, Longitude: lon}
	if err := r.store.Set(map[string]interface{}{KeyLocation: resolved}); err != nil {
		r.logger.Warn("failed to persist location", zap.Error(err))
	}
	return resolved
}
