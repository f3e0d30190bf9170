// internal/otp/handlers.go

package otp

import (
	"errors"
	"net/http"

	"github.com/imadgeboyega/tadhana-backend/internal/common/utils"
)

// Handler handles OTP-related HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new OTP handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ResendOTP handles OTP resend requests
func (h *Handler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req ResendOTPRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	response, err := h.service.ResendOTP(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.SuccessResponse(w, response, http.StatusOK)
}

// writeError maps OTP errors to HTTP statuses
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRateLimitExceeded):
		utils.ErrorResponse(w, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, ErrOTPNotFound):
		utils.ErrorResponse(w, "No pending verification code", http.StatusNotFound)
	case errors.Is(err, ErrOTPExpired):
		utils.ErrorResponse(w, "OTP has expired", http.StatusBadRequest)
	case errors.Is(err, ErrOTPInvalid):
		utils.ErrorResponse(w, "Invalid OTP code", http.StatusBadRequest)
	case errors.Is(err, ErrOTPMaxAttempts):
		utils.ErrorResponse(w, "Maximum verification attempts exceeded", http.StatusTooManyRequests)
	case errors.Is(err, ErrOTPAlreadyUsed):
		utils.ErrorResponse(w, "OTP has already been used", http.StatusConflict)
	default:
		utils.ErrorResponse(w, "Failed to process OTP", http.StatusInternalServerError)
	}
}

// WriteError exposes the OTP error mapping to other handlers
func WriteError(w http.ResponseWriter, err error) {
	writeError(w, err)
}
