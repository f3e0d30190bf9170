// internal/admin/handlers.go

package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/imadgeboyega/tadhana-backend/internal/common/utils"
	"github.com/imadgeboyega/tadhana-backend/internal/matching"
	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

// Handler serves the admin console API
type Handler struct {
	service Service
}

// NewHandler creates a new admin handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetStats returns dashboard counters
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		utils.ErrorResponse(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}
	utils.SuccessResponse(w, stats, http.StatusOK)
}

// ListUsers returns registrants, optionally filtered by ?status=
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	status := profile.UserStatus(r.URL.Query().Get("status"))
	switch status {
	case "", profile.StatusPendingVerification, profile.StatusWaiting, profile.StatusMatched:
	default:
		utils.ErrorResponse(w, "Invalid status filter", http.StatusBadRequest)
		return
	}

	users, err := h.service.ListUsers(r.Context(), status)
	if err != nil {
		profile.WriteError(w, err)
		return
	}
	utils.SuccessResponse(w, users, http.StatusOK)
}

// SetPayment records the review of a payment proof
func (h *Handler) SetPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req profile.PaymentDecisionRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.SetPaymentStatus(r.Context(), userID, req.Status); err != nil {
		profile.WriteError(w, err)
		return
	}
	utils.MessageResponse(w, "Payment status updated", http.StatusOK)
}

// GetSuggestions ranks waiting users for one registrant
func (h *Handler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			utils.ErrorResponse(w, "limit must be between 1 and 100", http.StatusBadRequest)
			return
		}
		limit = n
	}

	suggestions, err := h.service.Suggestions(r.Context(), userID, limit)
	if err != nil {
		matching.WriteError(w, err)
		return
	}
	utils.SuccessResponse(w, suggestions, http.StatusOK)
}

// Score returns the full breakdown for a pair
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	var req matching.ScoreRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Score(r.Context(), req.User1ID, req.User2ID)
	if err != nil {
		matching.WriteError(w, err)
		return
	}
	utils.SuccessResponse(w, result, http.StatusOK)
}

// CreateMatch pairs two users by hand
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req matching.ManualMatchRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	match, err := h.service.CreateMatch(r.Context(), req.User1ID, req.User2ID)
	if err != nil {
		matching.WriteError(w, err)
		return
	}
	utils.SuccessResponse(w, match, http.StatusCreated)
}

// RunBatch triggers a batch match run and reports what it did
func (h *Handler) RunBatch(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.RunBatch(r.Context())
	if err != nil {
		if report != nil && !errors.Is(err, matching.ErrBatchInProgress) {
			utils.ErrorResponse(w, "Batch stopped early after "+strconv.Itoa(report.Matched)+" matches", http.StatusInternalServerError)
			return
		}
		matching.WriteError(w, err)
		return
	}
	utils.SuccessResponse(w, map[string]interface{}{
		"matched":     report.Matched,
		"considered":  report.Considered,
		"conflicts":   report.Conflicts,
		"duration_ms": report.Duration.Milliseconds(),
	}, http.StatusOK)
}

// Recalibrate frees a user from their match so they re-enter the pool
func (h *Handler) Recalibrate(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	match, err := h.service.Recalibrate(r.Context(), userID)
	if err != nil {
		matching.WriteError(w, err)
		return
	}
	utils.SuccessResponse(w, match, http.StatusOK)
}

// ListMatches returns matches, ?active=true for live ones only
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	matches, err := h.service.ListMatches(r.Context(), activeOnly)
	if err != nil {
		matching.WriteError(w, err)
		return
	}
	utils.SuccessResponse(w, matches, http.StatusOK)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		utils.ErrorResponse(w, "Invalid user ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
