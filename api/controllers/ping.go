package controllers

import (
	"net/http"

	"github.com/ajcastillo/gearmart-backend/api/middleware"
	"github.com/ajcastillo/gearmart-backend/api/responses"
)

// PublicPing answers unauthenticated reachability checks.
func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"message": "pong"})
	}
}

// PrivatePing confirms the auth middleware seeded the caller's identity.
func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"message": "pong",
			"user_id": middleware.UserIDFromContext(r.Context()),
			"role":    middleware.RoleFromContext(r.Context()),
		})
	}
}

// AdminPing confirms the admin gate.
func AdminPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"message": "admin pong"})
	}
}
