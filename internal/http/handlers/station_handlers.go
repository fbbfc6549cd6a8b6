package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aklilumengesha/Battery-Swap/internal/http/middleware"
	"github.com/aklilumengesha/Battery-Swap/internal/repository"
	"github.com/aklilumengesha/Battery-Swap/internal/service"
)

// parseCoordinates reads latitude/longitude query params; both must be
// present and numeric or the request is rejected before any lookup.
func parseCoordinates(r *http.Request) (lat, lon float64, err error) {
	latStr := r.URL.Query().Get("latitude")
	lonStr := r.URL.Query().Get("longitude")
	if latStr == "" || lonStr == "" {
		return 0, 0, service.ErrMissingCoordinates
	}
	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, service.ErrMissingCoordinates
	}
	lon, err = strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, service.ErrMissingCoordinates
	}
	return lat, lon, nil
}

// NewFindStationsHandler handles GET /power/stations/find/{userId}/.
func NewFindStationsHandler(stations *service.StationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}

		pathUser, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
		if err != nil || pathUser != userID {
			writeFail(w, http.StatusForbidden, "user mismatch")
			return
		}

		lat, lon, err := parseCoordinates(r)
		if err != nil {
			writeFail(w, http.StatusBadRequest, "latitude and longitude are required")
			return
		}

		result, err := stations.Nearby(r.Context(), userID, lat, lon)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrMissingCoordinates):
				writeFail(w, http.StatusBadRequest, "latitude and longitude are required")
			case errors.Is(err, repository.ErrConsumerNotFound):
				writeFail(w, http.StatusNotFound, "Consumer profile not found")
			default:
				writeFail(w, http.StatusInternalServerError, "failed to fetch stations")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"stations": result,
		})
	}
}

// NewGetStationHandler handles GET /power/station/get/{id}/.
func NewGetStationHandler(stations *service.StationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeFail(w, http.StatusBadRequest, "invalid station id")
			return
		}

		lat, lon, err := parseCoordinates(r)
		if err != nil {
			writeFail(w, http.StatusBadRequest, "latitude and longitude are required")
			return
		}

		station, err := stations.Get(r.Context(), id, lat, lon)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrStationNotFound):
				writeFail(w, http.StatusNotFound, "Station not found")
			default:
				writeFail(w, http.StatusInternalServerError, "failed to fetch station")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"station": station,
		})
	}
}
