package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
)

// NearbyStations returns stations with available batteries ranked by distance
// from the given coordinates. Results for the same (user, coordinates) key
// are served locally until the freshness window lapses or a booking
// invalidates them.
func (c *Client) NearbyStations(ctx context.Context, userID int64, latitude, longitude float64) ([]models.Station, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrPrecondition)
	}
	if latitude == 0 || longitude == 0 {
		return nil, fmt.Errorf("%w: latitude and longitude are required", ErrPrecondition)
	}

	key := fmt.Sprintf("stations:%d:%v:%v", userID, latitude, longitude)
	if value, ok := c.cached(key, stationsFreshFor); ok {
		return value.([]models.Station), nil
	}

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))

	var resp struct {
		Success  bool             `json:"success"`
		Message  string           `json:"message"`
		Stations []models.Station `json:"stations"`
	}
	path := fmt.Sprintf("/power/stations/find/%d/", userID)
	if err := c.do(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusOK, Message: resp.Message}
	}

	c.remember(key, resp.Stations)
	return resp.Stations, nil
}

// Station fetches a single station, annotated with the distance from the
// given coordinates. Cached under a longer window than the nearby list since
// station details change rarely.
func (c *Client) Station(ctx context.Context, id int64, latitude, longitude float64) (*models.Station, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: station id is required", ErrPrecondition)
	}
	if latitude == 0 || longitude == 0 {
		return nil, fmt.Errorf("%w: latitude and longitude are required", ErrPrecondition)
	}

	key := fmt.Sprintf("station:%d:%v:%v", id, latitude, longitude)
	if value, ok := c.cached(key, stationFreshFor); ok {
		return value.(*models.Station), nil
	}

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))

	var resp struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Station *models.Station `json:"station"`
	}
	path := fmt.Sprintf("/power/station/get/%d/", id)
	if err := c.do(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusOK, Message: resp.Message}
	}

	c.remember(key, resp.Station)
	return resp.Station, nil
}
