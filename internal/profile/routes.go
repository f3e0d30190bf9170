// internal/profile/routes.go

package profile

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers the registrant's own profile routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware mux.MiddlewareFunc) {
	api := router.PathPrefix("/api/v1/profile").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("", handler.GetMyProfile).Methods("GET")
	api.HandleFunc("", handler.UpdateProfile).Methods("PUT")
	api.HandleFunc("/payment-proof", handler.UploadPaymentProof).Methods("POST")
}
