// internal/profile/handlers.go

package profile

import (
	"errors"
	"net/http"

	"github.com/imadgeboyega/tadhana-backend/internal/common/utils"
)

// Handler handles profile HTTP requests
type Handler struct {
	service       Service
	maxUploadSize int64
}

// NewHandler creates a new profile handler
func NewHandler(service Service, maxUploadSize int64) *Handler {
	return &Handler{service: service, maxUploadSize: maxUploadSize}
}

// GetMyProfile returns the caller's user row and profile document
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.GetMyProfile(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}
	utils.SuccessResponse(w, resp, http.StatusOK)
}

// UpdateProfile replaces the caller's matchable document
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := h.service.UpdateDocument(r.Context(), userID, req.Profile)
	if err != nil {
		WriteError(w, err)
		return
	}
	utils.SuccessResponse(w, profile, http.StatusOK)
}

// UploadPaymentProof accepts a multipart "proof" file
func (h *Handler) UploadPaymentProof(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.UserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		utils.ErrorResponse(w, "File too large or malformed form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("proof")
	if err != nil {
		utils.ErrorResponse(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.service.UploadPaymentProof(r.Context(), userID, header.Filename,
		header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		WriteError(w, err)
		return
	}

	utils.SuccessResponse(w, map[string]string{"payment_proof_url": url}, http.StatusOK)
}

// WriteError maps profile errors to HTTP statuses
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrProfileNotFound):
		utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrEmailTaken):
		utils.ErrorResponse(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidProofFormat), errors.Is(err, ErrProofTooLarge):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		utils.ErrorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}
