// internal/auth/handlers.go

package auth

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/imadgeboyega/tadhana-backend/internal/common/utils"
	"github.com/imadgeboyega/tadhana-backend/internal/otp"
	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

// Handler holds dependencies for auth endpoints
type Handler struct {
	service Service
}

// NewHandler creates a new auth handler
func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the public registration and sign-in routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/register", h.Signup).Methods("POST")

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/verify", h.VerifySignup).Methods("POST")
	auth.HandleFunc("/signin", h.RequestSignin).Methods("POST")
	auth.HandleFunc("/signin/verify", h.VerifySignin).Methods("POST")
}

// Signup handles registration
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req profile.RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	response, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.SuccessResponse(w, response, http.StatusCreated)
}

// VerifySignup handles the signup OTP
func (h *Handler) VerifySignup(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	response, err := h.service.VerifySignup(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.SuccessResponse(w, response, http.StatusOK)
}

// RequestSignin sends a sign-in code
func (h *Handler) RequestSignin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	response, err := h.service.RequestSignin(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.SuccessResponse(w, response, http.StatusOK)
}

// VerifySignin exchanges a sign-in code for a token
func (h *Handler) VerifySignin(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	response, err := h.service.VerifySignin(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.SuccessResponse(w, response, http.StatusOK)
}

// AdminLogin is mounted by the admin console router
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	response, err := h.service.AdminLogin(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.SuccessResponse(w, response, http.StatusOK)
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := utils.DecodeJSON(r, dst); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	if err := utils.ValidateStruct(dst); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profile.ErrEmailTaken):
		utils.ErrorResponse(w, "Email already registered", http.StatusConflict)
	case errors.Is(err, ErrInvalidCredentials):
		utils.ErrorResponse(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, ErrNotVerified):
		utils.ErrorResponse(w, "Please verify your account first", http.StatusForbidden)
	case errors.Is(err, ErrAlreadyVerified):
		utils.ErrorResponse(w, "Account already verified", http.StatusConflict)
	case errors.Is(err, ErrTooManyAttempts):
		utils.ErrorResponse(w, "Too many login attempts. Please try again later.", http.StatusTooManyRequests)
	case errors.Is(err, ErrNoPhone):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		otp.WriteError(w, err)
	}
}
