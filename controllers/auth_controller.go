package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/linkai-agency/cms/middleware"
	"github.com/linkai-agency/cms/services"
	"github.com/linkai-agency/cms/userctx"
)

// AuthController handles login, logout, session status, and password change.
type AuthController struct {
	auth services.AuthService
}

// NewAuthController creates a new auth controller
func NewAuthController(services *services.Services) *AuthController {
	return &AuthController{auth: services.Auth}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login verifies credentials and establishes a session
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := ac.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondServerError(w, "Login failed", err)
		return
	}

	sess := session.GetSession(r)
	sess.Set(middleware.SessionUserID, user.ID)
	sess.Set(middleware.SessionUserEmail, user.Email)
	sess.Set(middleware.SessionUserRole, user.Role)

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": map[string]string{
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Logout records the logout and clears the session
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if actor, ok := middleware.ActorFromSession(r); ok {
		if err := ac.auth.Logout(r.Context(), actor); err != nil {
			respondServerError(w, "Logout failed", err)
			return
		}
	}

	sess := session.GetSession(r)
	if err := sess.Flush(); err != nil {
		respondServerError(w, "Could not log out", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Status reports whether the request carries an authenticated session
func (ac *AuthController) Status(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromSession(r)
	if !ok {
		respondJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]string{
			"email": actor.Email,
			"role":  actor.Role,
		},
	})
}

// ChangePassword rotates the authenticated user's password
func (ac *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, _ := userctx.GetActor(r.Context())

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := ac.auth.ChangePassword(r.Context(), actor, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWeakPassword):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Current password is incorrect")
		default:
			respondServerError(w, "Password change failed", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
