// internal/otp/models.go

package otp

import (
	"time"
)

// OTPType represents different OTP use cases
type OTPType string

const (
	OTPTypeSignup OTPType = "signup"
	OTPTypeSignin OTPType = "signin"
)

// DeliveryMethod represents how OTP is sent
type DeliveryMethod string

const (
	DeliveryMethodEmail DeliveryMethod = "email"
	DeliveryMethodSMS   DeliveryMethod = "sms"
)

// OTP represents an OTP record
type OTP struct {
	ID         int64          `json:"id" db:"id"`
	RequestID  string         `json:"request_id" db:"request_id"`
	UserID     int64          `json:"user_id" db:"user_id"`
	Code       string         `json:"-" db:"code"`
	Type       OTPType        `json:"type" db:"type"`
	Method     DeliveryMethod `json:"method" db:"method"`
	Recipient  string         `json:"recipient" db:"recipient"` // email or phone
	Attempts   int            `json:"attempts" db:"attempts"`
	Verified   bool           `json:"verified" db:"verified"`
	ExpiresAt  time.Time      `json:"expires_at" db:"expires_at"`
	VerifiedAt *time.Time     `json:"verified_at,omitempty" db:"verified_at"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// SendOTPRequest is built by auth once the user is known
type SendOTPRequest struct {
	UserID    int64
	Recipient string
	Type      OTPType
	Method    DeliveryMethod
}

// VerifyOTPRequest represents request to verify OTP
type VerifyOTPRequest struct {
	Recipient string  `json:"recipient" validate:"required"`
	Code      string  `json:"code" validate:"required,numeric,min=4,max=8"`
	Type      OTPType `json:"type" validate:"required,oneof=signup signin"`
}

// ResendOTPRequest represents request to resend OTP
type ResendOTPRequest struct {
	Recipient string  `json:"recipient" validate:"required"`
	Type      OTPType `json:"type" validate:"required,oneof=signup signin"`
}

// OTPResponse represents OTP operation response
type OTPResponse struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id"`
	Method    DeliveryMethod `json:"method"`
	ExpiresAt time.Time      `json:"expires_at,omitempty"`
}

// OTPConfig holds OTP configuration
type OTPConfig struct {
	Length      int           `json:"length"`
	Expiry      time.Duration `json:"expiry"`
	MaxAttempts int           `json:"max_attempts"`
	RateLimit   RateLimitConfig
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	MaxRequests int           `json:"max_requests"`
	Window      time.Duration `json:"window"`
}

// SMSMessage represents SMS message data
type SMSMessage struct {
	To      string
	Message string
}
