// internal/auth/models.go

package auth

import (
	"time"

	"github.com/imadgeboyega/tadhana-backend/internal/otp"
	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

// Config holds token and admin credential settings
type Config struct {
	JWTSecret         string
	AccessTokenExpiry time.Duration
	AdminUsername     string
	AdminPasswordHash string
	AdminTokenExpiry  time.Duration
	MaxLoginFailures  int
	LockoutWindow     time.Duration
}

// SignupResponse is returned after registration
type SignupResponse struct {
	User                 *profile.User    `json:"user"`
	Message              string           `json:"message"`
	RequiresVerification bool             `json:"requires_verification"`
	OTP                  *otp.OTPResponse `json:"otp,omitempty"`
}

// VerifyRequest carries an OTP for signup or sign-in
type VerifyRequest struct {
	Email  string             `json:"email" validate:"required,email"`
	Code   string             `json:"code" validate:"required,numeric,min=4,max=8"`
	Method otp.DeliveryMethod `json:"method,omitempty" validate:"omitempty,oneof=email sms"`
}

// SigninRequest starts a passwordless sign-in
type SigninRequest struct {
	Email  string             `json:"email" validate:"required,email"`
	Method otp.DeliveryMethod `json:"method,omitempty" validate:"omitempty,oneof=email sms"`
}

// AdminLoginRequest is the admin console credential check
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries an access token
type AuthResponse struct {
	User        *profile.User `json:"user,omitempty"`
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int           `json:"expires_in"`
	Role        string        `json:"role"`
}
