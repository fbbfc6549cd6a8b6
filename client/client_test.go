package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aklilumengesha/Battery-Swap/internal/geocode"
	"github.com/aklilumengesha/Battery-Swap/internal/models"
)

type apiFixture struct {
	server       *httptest.Server
	client       *Client
	now          time.Time
	findRequests int
	listRequests int
	bookRequests int
	lastFindURL  string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	f := &apiFixture{now: time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /power/stations/find/{userId}/", func(w http.ResponseWriter, r *http.Request) {
		f.findRequests++
		f.lastFindURL = r.URL.String()
		writeTestJSON(t, w, http.StatusOK, map[string]interface{}{
			"success": true,
			"stations": []models.Station{
				{ID: 1, Name: "Vyttila Hub", Distance: "512.4 m"},
				{ID: 2, Name: "Edappally Point", Distance: "3.2 km"},
			},
		})
	})
	mux.HandleFunc("GET /user/orders/", func(w http.ResponseWriter, r *http.Request) {
		f.listRequests++
		writeTestJSON(t, w, http.StatusOK, map[string]interface{}{
			"success": true,
			"orders":  []models.Booking{{ID: 41}},
		})
	})
	mux.HandleFunc("POST /user/orders/", func(w http.ResponseWriter, r *http.Request) {
		f.bookRequests++
		writeTestJSON(t, w, http.StatusCreated, map[string]interface{}{
			"success":  true,
			"message":  "Booking confirmed",
			"order_pk": 42,
		})
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)

	f.client = New(f.server.URL, NewMemoryStore(), NewMemoryStore(),
		WithClock(func() time.Time { return f.now }))
	return f
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestNearbyStationsMissingCoordinates(t *testing.T) {
	f := newAPIFixture(t)

	_, err := f.client.NearbyStations(context.Background(), 7, 0, 0)

	require.ErrorIs(t, err, ErrPrecondition)
	assert.Zero(t, f.findRequests)
}

func TestNearbyStationsServedFromCacheWithinWindow(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	first, err := f.client.NearbyStations(ctx, 7, 9.9312, 76.2673)
	require.NoError(t, err)
	require.Len(t, first, 2)

	f.now = f.now.Add(90 * time.Second)
	second, err := f.client.NearbyStations(ctx, 7, 9.9312, 76.2673)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.findRequests)

	f.now = f.now.Add(time.Minute)
	_, err = f.client.NearbyStations(ctx, 7, 9.9312, 76.2673)
	require.NoError(t, err)
	assert.Equal(t, 2, f.findRequests)
}

func TestNearbyStationsDifferentCoordinatesRefetch(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	_, err := f.client.NearbyStations(ctx, 7, 9.9312, 76.2673)
	require.NoError(t, err)
	_, err = f.client.NearbyStations(ctx, 7, 9.9658, 76.2421)
	require.NoError(t, err)

	assert.Equal(t, 2, f.findRequests)
}

func TestBookBatteryInvalidatesCachedReads(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	_, err := f.client.NearbyStations(ctx, 7, 9.9312, 76.2673)
	require.NoError(t, err)
	_, err = f.client.Bookings(ctx)
	require.NoError(t, err)

	orderID, err := f.client.BookBattery(ctx, 1, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(42), orderID)

	_, err = f.client.NearbyStations(ctx, 7, 9.9312, 76.2673)
	require.NoError(t, err)
	_, err = f.client.Bookings(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, f.findRequests)
	assert.Equal(t, 2, f.listRequests)
}

func TestBookBatteryMissingSelection(t *testing.T) {
	f := newAPIFixture(t)

	_, err := f.client.BookBattery(context.Background(), 0, 11)

	require.ErrorIs(t, err, ErrPrecondition)
	assert.Zero(t, f.bookRequests)
}

// reentrantDoer submits a second booking while the first is still in flight.
type reentrantDoer struct {
	inner  HTTPDoer
	client *Client
	nested error
}

func (d *reentrantDoer) Do(req *http.Request) (*http.Response, error) {
	if req.Method == http.MethodPost && d.nested == nil {
		_, d.nested = d.client.BookBattery(req.Context(), 1, 11)
	}
	return d.inner.Do(req)
}

func TestBookBatteryRejectsDoubleSubmission(t *testing.T) {
	f := newAPIFixture(t)

	doer := &reentrantDoer{inner: http.DefaultClient, client: f.client}
	f.client.http = doer

	_, err := f.client.BookBattery(context.Background(), 1, 11)
	require.NoError(t, err)

	require.ErrorIs(t, doer.nested, ErrBookingInFlight)
	assert.Equal(t, 1, f.bookRequests)

	// The guard releases once the first call finishes.
	_, err = f.client.BookBattery(context.Background(), 1, 11)
	require.NoError(t, err)
}

func TestResolveThenQueryIssuesOneStationRequest(t *testing.T) {
	f := newAPIFixture(t)
	store := NewMemoryStore()

	source := &fakeCoordinates{lat: 9.9312, lon: 76.2673}
	geocoder := &fakeGeocoder{result: geocode.Result{
		DisplayName: "MG Road, Ernakulam, Kochi, Kerala, 682011, India",
	}}
	resolver := NewResolver(store, source, geocoder, nil)

	loc := resolver.Resolve(context.Background())
	require.Equal(t, "Kochi, Kerala, 682011,", loc.Name)

	stations, err := f.client.NearbyStations(context.Background(), 7, loc.Latitude, loc.Longitude)
	require.NoError(t, err)
	require.Len(t, stations, 2)

	assert.Equal(t, 1, f.findRequests)
	assert.Contains(t, f.lastFindURL, "latitude=9.9312")
	assert.Contains(t, f.lastFindURL, "longitude=76.2673")
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"success":false,"message":"Swap limit reached (10/10)"}`))
	}))
	defer server.Close()

	c := New(server.URL, NewMemoryStore(), NewMemoryStore())

	_, err := c.BookBattery(context.Background(), 1, 11)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Swap limit reached (10/10)", apiErr.Message)
}

func TestSignInStoresCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"success": true,
			"message": "Welcome back, Aklilu",
			"tokens": {"access": "acc-token", "refresh": "ref-token"},
			"user": {"pk": 7, "user_type": "consumer", "meta_data": {}}
		}`))
	}))
	defer server.Close()

	session := NewMemoryStore()
	c := New(server.URL, session, NewMemoryStore())

	user, err := c.SignIn(context.Background(), "a@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.PK)

	var access string
	require.True(t, session.Get(KeyAccessToken, &access))
	assert.Equal(t, "acc-token", access)
	assert.True(t, c.SignedIn())

	c.SignOut()
	assert.False(t, c.SignedIn())
}
