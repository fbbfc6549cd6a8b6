package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/aklilumengesha/Battery-Swap/internal/geo"
	"github.com/aklilumengesha/Battery-Swap/internal/models"
)

// ErrMissingCoordinates rejects lookups before any storage access.
var ErrMissingCoordinates = errors.New("stations: latitude and longitude are required")

// StationReader is the storage contract for station lookups.
type StationReader interface {
	ListWithAvailable(ctx context.Context, vehicleID int64) ([]models.Station, error)
	GetByID(ctx context.Context, id int64) (*models.Station, error)
}

// ConsumerVehicleReader resolves the vehicle a consumer registered.
type ConsumerVehicleReader interface {
	GetConsumerVehicleID(ctx context.Context, userID int64) (int64, error)
}

// NearbyCache keeps ranked results fresh for a bounded interval.
type NearbyCache interface {
	Get(ctx context.Context, userID int64, lat, lon float64) ([]models.Station, bool, error)
	Save(ctx context.Context, userID int64, lat, lon float64, stations []models.Station) error
}

// StationService ranks stations by distance from the caller.
type StationService struct {
	stations  StationReader
	consumers ConsumerVehicleReader
	cache     NearbyCache
	logger    *zap.Logger
}

// NewStationService builds the service. cache may be nil.
func NewStationService(stations StationReader, consumers ConsumerVehicleReader, cache NearbyCache, logger *zap.Logger) *StationService {
	return &StationService{
		stations:  stations,
		consumers: consumers,
		cache:     cache,
		logger:    logger,
	}
}

// Nearby returns stations stocking compatible batteries, annotated with the
// formatted distance from (lat, lon) and sorted nearest first. Results for
// the same key are served from the cache within its freshness interval.
func (s *StationService) Nearby(ctx context.Context, userID int64, lat, lon float64) ([]models.Station, error) {
	if lat == 0 || lon == 0 {
		return nil, ErrMissingCoordinates
	}

	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, userID, lat, lon); err != nil {
			s.logger.Warn("station cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	vehicleID, err := s.consumers.GetConsumerVehicleID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stations, err := s.stations.ListWithAvailable(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	meters := make(map[int64]float64, len(stations))
	for i := range stations {
		meters[stations[i].ID] = geo.Meters(stations[i].Latitude, stations[i].Longitude, lat, lon)
		stations[i].Distance = geo.DistanceBetween(stations[i].Latitude, stations[i].Longitude, lat, lon)
	}
	sort.SliceStable(stations, func(i, j int) bool {
		return meters[stations[i].ID] < meters[stations[j].ID]
	})

	if s.cache != nil {
		if err := s.cache.Save(ctx, userID, lat, lon, stations); err != nil {
			s.logger.Warn("station cache write failed", zap.Error(err))
		}
	}

	return stations, nil
}

// Get returns one station with the distance annotated from (lat, lon).
func (s *StationService) Get(ctx context.Context, id int64, lat, lon float64) (*models.Station, error) {
	if lat == 0 || lon == 0 {
		return nil, ErrMissingCoordinates
	}

	station, err := s.stations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	station.Distance = geo.DistanceBetween(station.Latitude, station.Longitude, lat, lon)
	return station, nil
}
