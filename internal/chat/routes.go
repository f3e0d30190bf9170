// internal/chat/routes.go

package chat

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers the match thread routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware mux.MiddlewareFunc) {
	api := router.PathPrefix("/api/v1/matches/{id:[0-9]+}/messages").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("", handler.ListMessages).Methods("GET")
	api.HandleFunc("", handler.SendMessage).Methods("POST")
}
