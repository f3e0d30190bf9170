// internal/chat/handlers.go

package chat

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/tadhana-backend/internal/common/utils"
)

// Handler handles chat HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new chat handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// SendMessage posts a message to a match thread
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, matchID, ok := identify(w, r)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.TrySendMessage(r.Context(), matchID, userID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.SuccessResponse(w, result, http.StatusCreated)
}

// ListMessages returns the thread, oldest first
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, matchID, ok := identify(w, r)
	if !ok {
		return
	}

	messages, err := h.service.ListMessages(r.Context(), matchID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.SuccessResponse(w, messages, http.StatusOK)
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
	case errors.Is(err, ErrMessageTooLong), errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrProfanity):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotInMatch), errors.Is(err, ErrChatLocked):
		utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrMatchNotFound):
		utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrMatchInactive):
		utils.ErrorResponse(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrLimitReached):
		utils.ErrorResponse(w, err.Error(), http.StatusTooManyRequests)
	default:
		utils.ErrorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}
