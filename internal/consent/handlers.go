// internal/consent/handlers.go

package consent

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/tadhana-backend/internal/common/utils"
)

// Handler handles consent HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new consent handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetState returns the caller's consent view of a match
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	userID, matchID, ok := identify(w, r)
	if !ok {
		return
	}

	state, err := h.service.GetState(r.Context(), matchID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.SuccessResponse(w, state, http.StatusOK)
}

// SetChat records the caller's chat consent
func (h *Handler) SetChat(w http.ResponseWriter, r *http.Request) {
	h.set(w, r, h.service.SetChatConsent)
}

// SetReveal records the caller's reveal consent
func (h *Handler) SetReveal(w http.ResponseWriter, r *http.Request) {
	h.set(w, r, h.service.SetRevealConsent)
}

type setFunc func(ctx context.Context, matchID, userID int64, value bool) (*State, error)

func (h *Handler) set(w http.ResponseWriter, r *http.Request, fn setFunc) {
	userID, matchID, ok := identify(w, r)
	if !ok {
		return
	}

	var req SetConsentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	state, err := fn(r.Context(), matchID, userID, *req.Consent)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.SuccessResponse(w, state, http.StatusOK)
}

func identify(w http.ResponseWriter, r *http.Request) (userID, matchID int64, ok bool) {
	userID, ok = utils.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}

	matchID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || matchID <= 0 {
		utils.ErrorResponse(w, "Invalid match ID", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, matchID, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNotParticipant):
		utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrMatchInactive):
		utils.ErrorResponse(w, err.Error(), http.StatusConflict)
	default:
		utils.ErrorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}
