package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
)

type fakeStationReader struct {
	stations []models.Station
	lists    int
}

func (f *fakeStationReader) ListWithAvailable(ctx context.Context, vehicleID int64) ([]models.Station, error) {
	f.lists++
	out := make([]models.Station, len(f.stations))
	copy(out, f.stations)
	return out, nil
}

func (f *fakeStationReader) GetByID(ctx context.Context, id int64) (*models.Station, error) {
	for _, s := range f.stations {
		if s.ID == id {
			station := s
			return &station, nil
		}
	}
	return nil, assertionErr("station not found")
}

type fakeConsumerReader struct{}

func (fakeConsumerReader) GetConsumerVehicleID(ctx context.Context, userID int64) (int64, error) {
	return 1, nil
}

type memoryNearbyCache struct {
	entries map[string][]models.Station
}

func (m *memoryNearbyCache) key(userID int64, lat, lon float64) string {
	return fmt.Sprintf("%d:%.4f:%.4f", userID, lat, lon)
}

func (m *memoryNearbyCache) Get(ctx context.Context, userID int64, lat, lon float64) ([]models.Station, bool, error) {
	stations, ok := m.entries[m.key(userID, lat, lon)]
	return stations, ok, nil
}

func (m *memoryNearbyCache) Save(ctx context.Context, userID int64, lat, lon float64, stations []models.Station) error {
	m.entries[m.key(userID, lat, lon)] = stations
	return nil
}

func kochiStations() []models.Station {
	return []models.Station{
		{ID: 1, Name: "Vyttila Hub", Latitude: 9.9680, Longitude: 76.3184},
		{ID: 2, Name: "Fort Kochi Swap Point", Latitude: 9.9658, Longitude: 76.2422},
		{ID: 3, Name: "Edappally Junction", Latitude: 10.0274, Longitude: 76.3082},
	}
}

func TestStationService_Nearby_SortsByDistance(t *testing.T) {
	reader := &fakeStationReader{stations: kochiStations()}
	svc := NewStationService(reader, fakeConsumerReader{}, nil, zap.NewNop())

	// Caller sits in Fort Kochi; station 2 must rank first, Edappally last.
	got, err := svc.Nearby(context.Background(), 1, 9.9658, 76.2421)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(3), got[2].ID)

	for _, station := range got {
		assert.NotEmpty(t, station.Distance)
	}
}

func TestStationService_Nearby_MissingCoordinates(t *testing.T) {
	reader := &fakeStationReader{stations: kochiStations()}
	svc := NewStationService(reader, fakeConsumerReader{}, nil, zap.NewNop())

	_, err := svc.Nearby(context.Background(), 1, 0, 76.2421)
	assert.ErrorIs(t, err, ErrMissingCoordinates)
	_, err = svc.Nearby(context.Background(), 1, 9.9658, 0)
	assert.ErrorIs(t, err, ErrMissingCoordinates)
	assert.Zero(t, reader.lists, "precondition failures must not touch storage")
}

func TestStationService_Nearby_ServedFromCache(t *testing.T) {
	reader := &fakeStationReader{stations: kochiStations()}
	cache := &memoryNearbyCache{entries: map[string][]models.Station{}}
	svc := NewStationService(reader, fakeConsumerReader{}, cache, zap.NewNop())

	_, err := svc.Nearby(context.Background(), 1, 9.9658, 76.2421)
	require.NoError(t, err)
	_, err = svc.Nearby(context.Background(), 1, 9.9658, 76.2421)
	require.NoError(t, err)

	assert.Equal(t, 1, reader.lists, "second call with the same key must hit the cache")
}

func TestStationService_Get_AnnotatesDistance(t *testing.T) {
	reader := &fakeStationReader{stations: kochiStations()}
	svc := NewStationService(reader, fakeConsumerReader{}, nil, zap.NewNop())

	station, err := svc.Get(context.Background(), 2, 9.9658, 76.2422)
	require.NoError(t, err)
	assert.Equal(t, "0 m", station.Distance)
}
