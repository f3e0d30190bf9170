// internal/matching/handlers.go

package matching

import (
	"errors"
	"net/http"

	"github.com/imadgeboyega/tadhana-backend/internal/common/utils"
)

// Handler serves the registrant-facing match endpoints
type Handler struct {
	service Service
}

// NewHandler creates a new matching handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetMyMatch returns the caller's active match summary
func (h *Handler) GetMyMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.service.GetActiveMatchForUser(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	utils.SuccessResponse(w, summary, http.StatusOK)
}

// Rematch releases the caller from their active match
func (h *Handler) Rematch(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := h.service.Rematch(r.Context(), userID); err != nil {
		WriteError(w, err)
		return
	}

	utils.MessageResponse(w, "You are back in the matching pool", http.StatusOK)
}

// WriteError maps matching errors to HTTP statuses
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoActiveMatch):
		utils.ErrorResponse(w, "No active match", http.StatusNotFound)
	case errors.Is(err, ErrMatchNotFound), errors.Is(err, ErrUserNotFound):
		utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrPairConflict), errors.Is(err, ErrBatchInProgress):
		utils.ErrorResponse(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrOrientationIncompatible):
		utils.ErrorResponse(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrSameUser):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		utils.ErrorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}
