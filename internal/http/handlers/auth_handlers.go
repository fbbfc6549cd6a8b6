package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
	"github.com/aklilumengesha/Battery-Swap/internal/service"
)

// userPayload is the user object returned on signin/signup.
type userPayload struct {
	PK       int64                  `json:"pk"`
	UserType string                 `json:"user_type"`
	MetaData map[string]interface{} `json:"meta_data"`
}

func newUserPayload(user *models.User, profile *models.ConsumerProfile) userPayload {
	meta := map[string]interface{}{}
	if profile != nil {
		meta["vehicle"] = map[string]interface{}{
			"pk":   profile.Vehicle.ID,
			"name": profile.Vehicle.Name,
		}
	}
	return userPayload{PK: user.ID, UserType: user.UserType, MetaData: meta}
}

// NewSignupHandler handles POST /user/signup/.
func NewSignupHandler(authService *service.AuthService) http.HandlerFunc {
	type request struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		UserType string `json:"user_type"`
		Vehicle  int64  `json:"vehicle"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFail(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		req.Email = strings.TrimSpace(req.Email)
		req.Password = strings.TrimSpace(req.Password)
		if req.Email == "" || req.Password == "" {
			writeFail(w, http.StatusBadRequest, "email and password are required")
			return
		}
		if len(req.Password) < 8 {
			writeFail(w, http.StatusBadRequest, "password must be at least 8 characters")
			return
		}

		user, err := authService.Signup(r.Context(), service.SignupInput{
			Name:      req.Name,
			Email:     req.Email,
			Password:  req.Password,
			UserType:  req.UserType,
			VehicleID: req.Vehicle,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrEmailInUse):
				writeFail(w, http.StatusConflict, "email already registered")
			case errors.Is(err, service.ErrVehicleRequired):
				writeFail(w, http.StatusBadRequest, "vehicle is required for consumers")
			default:
				writeFail(w, http.StatusInternalServerError, "failed to create user")
			}
			return
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"message": fmt.Sprintf("Welcome, %s", user.Name),
			"user":    newUserPayload(user, nil),
		})
	}
}

// NewSignInHandler handles POST /user/signin/.
func NewSignInHandler(authService *service.AuthService) http.HandlerFunc {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFail(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		pair, user, profile, err := authService.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				writeFail(w, http.StatusUnauthorized, "Invalid Credentials")
				return
			}
			writeFail(w, http.StatusInternalServerError, "failed to sign in")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"message": fmt.Sprintf("Welcome back, %s", user.Name),
			"tokens":  pair,
			"user":    newUserPayload(user, profile),
		})
	}
}
