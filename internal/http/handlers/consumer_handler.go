package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aklilumengesha/Battery-Swap/internal/http/middleware"
	"github.com/aklilumengesha/Battery-Swap/internal/repository"
)

// NewGetConsumerHandler handles GET /consumer/manage/.
func NewGetConsumerHandler(users *repository.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}

		profile, err := users.GetConsumerProfile(r.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrConsumerNotFound) {
				writeFail(w, http.StatusNotFound, "Consumer profile not found")
				return
			}
			writeFail(w, http.StatusInternalServerError, "failed to fetch profile")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user": map[string]interface{}{
				"name":  profile.Name,
				"phone": profile.Phone,
				"vehicle": map[string]interface{}{
					"pk":   profile.Vehicle.ID,
					"name": profile.Vehicle.Name,
				},
			},
		})
	}
}

// NewUpdateConsumerHandler handles PUT /consumer/manage/.
func NewUpdateConsumerHandler(users *repository.UserRepository) http.HandlerFunc {
	type request struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Vehicle int64  `json:"vehicle"`
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

		if err := users.UpdateConsumerProfile(r.Context(), userID, req.Name, req.Phone, req.Vehicle); err != nil {
			switch {
			case errors.Is(err, repository.ErrConsumerNotFound):
				writeFail(w, http.StatusNotFound, "Consumer profile not found")
			case errors.Is(err, repository.ErrVehicleNotFound):
				writeFail(w, http.StatusNotFound, "Vehicle not found")
			default:
				writeFail(w, http.StatusInternalServerError, "failed to update profile")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

// NewDeleteConsumerHandler handles DELETE /consumer/manage/.
func NewDeleteConsumerHandler(users *repository.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}

		if err := users.DeleteConsumer(r.Context(), userID); err != nil {
			if errors.Is(err, repository.ErrConsumerNotFound) {
				writeFail(w, http.StatusNotFound, "Consumer profile not found")
				return
			}
			writeFail(w, http.StatusInternalServerError, "failed to delete account")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
