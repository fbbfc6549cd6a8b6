package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Set(map[string]interface{}{
		KeyAccessToken: "token-value",
		KeyUser:        AuthUser{PK: 7, UserType: "consumer"},
	}))

	var token string
	require.True(t, store.Get(KeyAccessToken, &token))
	assert.Equal(t, "token-value", token)

	var user AuthUser
	require.True(t, store.Get(KeyUser, &user))
	assert.Equal(t, int64(7), user.PK)

	assert.True(t, store.Has(KeyAccessToken))
	assert.False(t, store.Has(KeyLocation))
}

func TestMemoryStoreMissingKeyIsNotAnError(t *testing.T) {
	store := NewMemoryStore()

	var value string
	assert.False(t, store.Get("absent", &value))
	assert.Empty(t, value)
}

func TestMemoryStoreRemoveAndClear(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(map[string]interface{}{
		KeyAccessToken:  "a",
		KeyRefreshToken: "r",
	}))

	store.Remove(KeyAccessToken)
	assert.False(t, store.Has(KeyAccessToken))
	assert.True(t, store.Has(KeyRefreshToken))

	store.Clear()
	assert.False(t, store.Has(KeyRefreshToken))
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	first := NewFileStore(path)
	require.NoError(t, first.Set(map[string]interface{}{
		KeyLocation: Location{Name: "Kochi, Kerala", Latitude: 9.9312, Longitude: 76.2673},
	}))

	second := NewFileStore(path)
	var loc Location
	require.True(t, second.Get(KeyLocation, &loc))
	assert.Equal(t, "Kochi, Kerala", loc.Name)
	assert.InDelta(t, 9.9312, loc.Latitude, 1e-9)
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)
	require.NoError(t, store.Set(map[string]interface{}{KeyLocation: DefaultLocation}))

	store.Clear()
	assert.False(t, store.Has(KeyLocation))
}
