package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
)

// BookBattery reserves a battery at a station and returns the new booking id.
// Only one booking may be in flight at a time; a second submission before the
// first completes returns ErrBookingInFlight. On success every cached station
// and booking read is marked stale.
func (c *Client) BookBattery(ctx context.Context, stationID, batteryID int64) (int64, error) {
	if stationID == 0 || batteryID == 0 {
		return 0, fmt.Errorf("%w: station and battery are required", ErrPrecondition)
	}

	c.mu.Lock()
	if c.booking {
		c.mu.Unlock()
		return 0, ErrBookingInFlight
	}
	c.booking = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.booking = false
		c.mu.Unlock()
	}()

	payload := map[string]int64{"station": stationID, "battery": batteryID}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		OrderPK int64  `json:"order_pk"`
	}
	if err := c.do(ctx, http.MethodPost, "/user/orders/", nil, payload, &resp); err != nil {
		return 0, err
	}
	if !resp.Success {
		return 0, &APIError{Status: http.StatusOK, Message: resp.Message}
	}

	c.invalidatePrefix("stations:", "station:", "bookings")
	return resp.OrderPK, nil
}

// Bookings lists the user's bookings, newest first.
func (c *Client) Bookings(ctx context.Context) ([]models.Booking, error) {
	if value, ok := c.cached("bookings", bookingsFreshFor); ok {
		return value.([]models.Booking), nil
	}

	var resp struct {
		Success bool             `json:"success"`
		Message string           `json:"message"`
		Orders  []models.Booking `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/orders/", nil, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusOK, Message: resp.Message}
	}

	c.remember("bookings", resp.Orders)
	return resp.Orders, nil
}

// Booking fetches a single booking by id.
func (c *Client) Booking(ctx context.Context, id int64) (*models.Booking, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: booking id is required", ErrPrecondition)
	}

	var resp struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Order   *models.Booking `json:"order"`
	}
	path := fmt.Sprintf("/user/order/%d/", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusOK, Message: resp.Message}
	}
	return resp.Order, nil
}

// Collect marks a booking's battery as picked up. Station availability
// changes, so cached reads are invalidated the same way as on booking.
func (c *Client) Collect(ctx context.Context, id int64) (*models.Booking, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: booking id is required", ErrPrecondition)
	}

	var resp struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Order   *models.Booking `json:"order"`
	}
	path := fmt.Sprintf("/user/order/collect/%d/", id)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusOK, Message: resp.Message}
	}

	c.invalidatePrefix("stations:", "station:", "bookings")
	return resp.Order, nil
}
