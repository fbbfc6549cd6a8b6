package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationIQ_Reverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse.php", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "9.9312", r.URL.Query().Get("lat"))
		assert.Equal(t, "76.2673", r.URL.Query().Get("lon"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name":"MG Road, Ernakulam, Kochi, Kerala, 682011, India","lat":"9.9312","lon":"76.2673"}`))
	}))
	defer srv.Close()

	client := NewLocationIQ(srv.URL, "test-key", srv.Client())
	result, err := client.Reverse(context.Background(), 9.9312, 76.2673)
	require.NoError(t, err)
	assert.Equal(t, "MG Road, Ernakulam, Kochi, Kerala, 682011, India", result.DisplayName)
	assert.InDelta(t, 9.9312, result.Latitude, 1e-9)
	assert.InDelta(t, 76.2673, result.Longitude, 1e-9)
}

func TestLocationIQ_Reverse_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewLocationIQ(srv.URL, "bad-key", srv.Client())
	_, err := client.Reverse(context.Background(), 9.9312, 76.2673)
	require.Error(t, err)
}

func TestPlaceName(t *testing.T) {
	tests := []struct {
		name    string
		display string
		want    string
	}{
		{
			"full address keeps tokens [len-4, len-1)",
			"MG Road, Ernakulam, Kochi, Kerala, 682011, India",
			"Kochi, Kerala, 682011,",
		},
		{
			"short address drops the trailing token",
			"Kochi Kerala India",
			"Kochi Kerala",
		},
		{
			"single token unchanged",
			"Kochi",
			"Kochi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlaceName(tt.display))
		})
	}
}
