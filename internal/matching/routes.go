// internal/matching/routes.go

package matching

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers the registrant match routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware mux.MiddlewareFunc) {
	match := router.PathPrefix("/api/v1/match").Subrouter()
	match.Use(authMiddleware)

	match.HandleFunc("", handler.GetMyMatch).Methods("GET")
	match.HandleFunc("/rematch", handler.Rematch).Methods("POST")
}
