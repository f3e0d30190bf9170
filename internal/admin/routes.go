// internal/admin/routes.go

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter builds the admin console router, mounted under /api/admin.
// login is public; everything else needs an admin token.
func NewRouter(handler *Handler, login http.HandlerFunc, requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", login)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)

		r.Get("/stats", handler.GetStats)

		// Registrants
		r.Get("/users", handler.ListUsers)
		r.Put("/users/{id}/payment", handler.SetPayment)
		r.Get("/users/{id}/suggestions", handler.GetSuggestions)
		r.Post("/users/{id}/recalibrate", handler.Recalibrate)

		// Matching
		r.Get("/matches", handler.ListMatches)
		r.Post("/matches", handler.CreateMatch)
		r.Post("/matches/run", handler.RunBatch)
		r.Post("/score", handler.Score)
	})

	return r
}
