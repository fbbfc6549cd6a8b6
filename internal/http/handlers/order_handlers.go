package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aklilumengesha/Battery-Swap/internal/http/middleware"
	"github.com/aklilumengesha/Battery-Swap/internal/repository"
	"github.com/aklilumengesha/Battery-Swap/internal/service"
)

// NewCreateOrderHandler handles POST /user/orders/.
func NewCreateOrderHandler(bookings *service.BookingService) http.HandlerFunc {
	type request struct {
		Station int64 `json:"station"`
		Battery int64 `json:"battery"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFail(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		booking, err := bookings.Book(r.Context(), userID, req.Station, req.Battery)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrMissingSelection):
				writeFail(w, http.StatusBadRequest, "station and battery are required")
			case errors.Is(err, service.ErrNoSubscription), errors.Is(err, service.ErrSwapLimitReached):
				writeFail(w, http.StatusForbidden, err.Error())
			case errors.Is(err, repository.ErrBatteryUnavailable):
				writeFail(w, http.StatusConflict, "Battery is no longer available")
			default:
				writeFail(w, http.StatusInternalServerError, "failed to create booking")
			}
			return
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success":  true,
			"message":  "Booking confirmed",
			"order_pk": booking.ID,
		})
	}
}

// NewListOrdersHandler handles GET /user/orders/.
func NewListOrdersHandler(bookings *service.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}

		orders, err := bookings.List(r.Context(), userID)
		if err != nil {
			writeFail(w, http.StatusInternalServerError, "failed to fetch bookings")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"orders":  orders,
		})
	}
}

// NewGetOrderHandler handles GET /user/order/{id}/.
func NewGetOrderHandler(bookings *service.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeFail(w, http.StatusBadRequest, "invalid order id")
			return
		}

		order, err := bookings.Get(r.Context(), id, userID)
		if err != nil {
			if errors.Is(err, repository.ErrBookingNotFound) {
				writeFail(w, http.StatusNotFound, "Order not found")
				return
			}
			writeFail(w, http.StatusInternalServerError, "failed to fetch booking")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"order":   order,
		})
	}
}

// NewCollectOrderHandler handles POST /user/order/collect/{id}/.
func NewCollectOrderHandler(bookings *service.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeFail(w, http.StatusBadRequest, "invalid order id")
			return
		}

		order, err := bookings.Collect(r.Context(), id, userID)
		if err != nil {
			if errors.Is(err, repository.ErrBookingNotFound) {
				writeFail(w, http.StatusNotFound, "Order not found or already collected")
				return
			}
			writeFail(w, http.StatusInternalServerError, "failed to collect battery")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Battery collected",
			"order":   order,
		})
	}
}
