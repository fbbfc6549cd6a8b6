package handlers

import (
	"net/http"

	"github.com/aklilumengesha/Battery-Swap/internal/repository"
)

// NewListVehiclesHandler handles GET /power/vehicles/list/.
func NewListVehiclesHandler(vehicles *repository.VehicleRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := vehicles.List(r.Context())
		if err != nil {
			writeFail(w, http.StatusInternalServerError, "failed to fetch vehicles")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"vehicles": list,
		})
	}
}
