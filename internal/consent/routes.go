// internal/consent/routes.go

package consent

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers the per-match consent routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware mux.MiddlewareFunc) {
	api := router.PathPrefix("/api/v1/matches/{id:[0-9]+}/consent").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("", handler.GetState).Methods("GET")
	api.HandleFunc("/chat", handler.SetChat).Methods("PUT")
	api.HandleFunc("/reveal", handler.SetReveal).Methods("PUT")
}
