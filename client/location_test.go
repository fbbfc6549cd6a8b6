package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aklilumengesha/Battery-Swap/internal/geocode"
)

type fakeCoordinates struct {
	lat, lon float64
	err      error
	calls    int
}

func (f *fakeCoordinates) Coordinates(ctx context.Context) (float64, float64, error) {
	f.calls++
	if f.err != nil {
		return 0, 0, f.err
	}
	return f.lat, f.lon, nil
}

type fakeGeocoder struct {
	result geocode.Result
	err    error
	calls  int
}

func (f *fakeGeocoder) Reverse(ctx context.Context, lat, lon float64) (geocode.Result, error) {
	f.calls++
	if f.err != nil {
		return geocode.Result{}, f.err
	}
	return f.result, nil
}

func TestResolveReturnsStoredLocationWithoutLookups(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(map[string]interface{}{
		KeyLocation: Location{Name: "Fort Kochi", Latitude: 9.9658, Longitude: 76.2421},
	}))

	source := &fakeCoordinates{lat: 10, lon: 76}
	geocoder := &fakeGeocoder{}
	resolver := NewResolver(store, source, geocoder, nil)

	loc := resolver.Resolve(context.Background())

	assert.Equal(t, "Fort Kochi", loc.Name)
	assert.Zero(t, source.calls)
	assert.Zero(t, geocoder.calls)
}

func TestResolveGeocodesAndPersists(t *testing.T) {
	store := NewMemoryStore()
	source := &fakeCoordinates{lat: 9.9312, lon: 76.2673}
	geocoder := &fakeGeocoder{result: geocode.Result{
		DisplayName: "MG Road, Ernakulam, Kochi, Kerala, 682011, India",
	}}
	resolver := NewResolver(store, source, geocoder, nil)

	loc := resolver.Resolve(context.Background())

	assert.Equal(t, "Kochi, Kerala, 682011,", loc.Name)
	assert.InDelta(t, 9.9312, loc.Latitude, 1e-9)
	assert.InDelta(t, 76.2673, loc.Longitude, 1e-9)

	var stored Location
	require.True(t, store.Get(KeyLocation, &stored))
	assert.Equal(t, loc, stored)
}

func TestResolveFallsBackToDefaultWhenDeviceDenies(t *testing.T) {
	store := NewMemoryStore()
	source := &fakeCoordinates{err: errors.New("permission denied")}
	resolver := NewResolver(store, source, &fakeGeocoder{}, nil)

	loc := resolver.Resolve(context.Background())

	assert.Equal(t, DefaultLocation, loc)
	assert.False(t, store.Has(KeyLocation))
}

func TestResolveFallsBackToDefaultWithoutSource(t *testing.T) {
	resolver := NewResolver(NewMemoryStore(), nil, nil, nil)

	assert.Equal(t, DefaultLocation, resolver.Resolve(context.Background()))
}

func TestResolveGeocodeFailureDoesNotPersist(t *testing.T) {
	store := NewMemoryStore()
	source := &fakeCoordinates{lat: 9.9312, lon: 76.2673}
	geocoder := &fakeGeocoder{err: errors.New("upstream unavailable")}
	resolver := NewResolver(store, source, geocoder, nil)

	loc := resolver.Resolve(context.Background())

	assert.Equal(t, DefaultLocation, loc)
	assert.False(t, store.Has(KeyLocation))
}
