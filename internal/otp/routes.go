// internal/otp/routes.go
package otp

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all OTP routes
func RegisterRoutes(router *mux.Router, handler *Handler) {
	// Public: used before the caller holds a token
	otp := router.PathPrefix("/api/v1/otp").Subrouter()

	otp.HandleFunc("/resend", handler.ResendOTP).Methods("POST")
}
