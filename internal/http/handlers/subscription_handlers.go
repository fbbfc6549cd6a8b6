package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aklilumengesha/Battery-Swap/internal/http/middleware"
	"github.com/aklilumengesha/Battery-Swap/internal/repository"
	"github.com/aklilumengesha/Battery-Swap/internal/service"
)

// NewListPlansHandler handles GET /api/plans/. Public endpoint.
func NewListPlansHandler(subscriptions *service.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := subscriptions.Plans(r.Context())
		if err != nil {
			writeFail(w, http.StatusInternalServerError, "failed to fetch plans")
			return
		}
		writeJSON(w, http.StatusOK, plans)
	}
}

// NewSubscribeHandler handles POST /api/subscribe/.
func NewSubscribeHandler(subscriptions *service.SubscriptionService) http.HandlerFunc {
	type request struct {
		PlanID         int64 `json:"plan_id"`
		DurationMonths int   `json:"duration_months"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}

		req := request{DurationMonths: 1}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFail(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		sub, err := subscriptions.Subscribe(r.Context(), userID, req.PlanID, req.DurationMonths)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidDuration):
				writeFail(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, repository.ErrPlanNotFound):
				writeFail(w, http.StatusNotFound, "Subscription plan not found")
			default:
				writeFail(w, http.StatusInternalServerError, "Subscription creation failed")
			}
			return
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success":      true,
			"message":      "Subscription created successfully",
			"subscription": sub,
		})
	}
}

// NewMySubscriptionHandler handles GET /api/my-subscription/.
func NewMySubscriptionHandler(subscriptions *service.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}

		sub, err := subscriptions.MySubscription(r.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrSubscriptionNotFound) {
				writeFail(w, http.StatusNotFound, "No active subscription found")
				return
			}
			writeFail(w, http.StatusInternalServerError, "failed to fetch subscription")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":      true,
			"subscription": sub,
		})
	}
}

// NewSubscriptionStatusHandler handles GET /api/subscription-status/.
func NewSubscriptionStatusHandler(subscriptions *service.SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}

		status, err := subscriptions.GetStatus(r.Context(), userID)
		if err != nil {
			writeFail(w, http.StatusInternalServerError, "failed to fetch subscription status")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"status":  status,
		})
	}
}
