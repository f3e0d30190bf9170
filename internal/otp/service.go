// internal/otp/service.go

package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/imadgeboyega/tadhana-backend/internal/common/logger"
	"github.com/imadgeboyega/tadhana-backend/internal/notification"
)

var (
	ErrOTPNotFound       = errors.New("no active OTP found")
	ErrOTPExpired        = errors.New("OTP has expired")
	ErrOTPInvalid        = errors.New("invalid OTP code")
	ErrOTPMaxAttempts    = errors.New("maximum verification attempts exceeded")
	ErrOTPAlreadyUsed    = errors.New("OTP has already been used")
	ErrRateLimitExceeded = errors.New("rate limit exceeded, please try again later")
)

// Service defines the OTP service interface
type Service interface {
	GenerateOTP(ctx context.Context, req *SendOTPRequest) (*OTPResponse, error)
	VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*OTP, error)
	ResendOTP(ctx context.Context, req *ResendOTPRequest) (*OTPResponse, error)
	CleanupExpiredOTPs(ctx context.Context) (int64, error)
}

// service implements the OTP service
type service struct {
	repo        Repository
	email       EmailSender
	smsProvider SMSProvider
	config      *OTPConfig
	log         *logger.Logger
}

// NewService creates a new OTP service
func NewService(
	repo Repository,
	email EmailSender,
	smsProvider SMSProvider,
	config *OTPConfig,
	log *logger.Logger,
) Service {
	if config == nil {
		config = &OTPConfig{
			Length:      6,
			Expiry:      10 * time.Minute,
			MaxAttempts: 5,
			RateLimit: RateLimitConfig{
				MaxRequests: 3,
				Window:      time.Hour,
			},
		}
	}

	return &service{
		repo:        repo,
		email:       email,
		smsProvider: smsProvider,
		config:      config,
		log:         log.With("component", "otp"),
	}
}

// GenerateOTP generates and sends a new OTP
func (s *service) GenerateOTP(ctx context.Context, req *SendOTPRequest) (*OTPResponse, error) {
	count, err := s.repo.CountRecentOTPs(ctx, req.Recipient, s.config.RateLimit.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}

	if count >= s.config.RateLimit.MaxRequests {
		return nil, ErrRateLimitExceeded
	}

	// Only the newest code for a recipient is ever valid
	if err := s.repo.InvalidateOTPs(ctx, req.Recipient, req.Type); err != nil {
		s.log.Warn("failed to invalidate existing OTPs", "recipient", req.Recipient, "error", err)
	}

	code, err := generateCode(s.config.Length)
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	method := req.Method
	if method == "" {
		method = DeliveryMethodEmail
	}

	now := time.Now()
	otp := &OTP{
		RequestID: uuid.New().String(),
		UserID:    req.UserID,
		Code:      code,
		Type:      req.Type,
		Method:    method,
		Recipient: req.Recipient,
		ExpiresAt: now.Add(s.config.Expiry),
		CreatedAt: now,
	}

	if err := s.repo.CreateOTP(ctx, otp); err != nil {
		return nil, fmt.Errorf("failed to save OTP: %w", err)
	}

	if err := s.sendOTP(ctx, otp); err != nil {
		return nil, fmt.Errorf("failed to send OTP: %w", err)
	}

	s.log.Info("otp issued", "request_id", otp.RequestID, "user_id", otp.UserID, "type", otp.Type, "method", otp.Method)

	return &OTPResponse{
		Success:   true,
		Message:   fmt.Sprintf("OTP sent successfully to %s", maskRecipient(otp.Recipient)),
		RequestID: otp.RequestID,
		Method:    otp.Method,
		ExpiresAt: otp.ExpiresAt,
	}, nil
}

// VerifyOTP consumes a matching code and returns the record it belonged to
func (s *service) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*OTP, error) {
	otp, err := s.repo.GetLatestOTPByRecipient(ctx, req.Recipient, req.Type)
	if err != nil {
		return nil, err
	}

	if time.Now().After(otp.ExpiresAt) {
		return nil, ErrOTPExpired
	}

	if otp.Attempts >= s.config.MaxAttempts {
		return nil, ErrOTPMaxAttempts
	}

	attempts, err := s.repo.IncrementAttempts(ctx, otp.ID)
	if err != nil {
		return nil, err
	}
	if attempts > s.config.MaxAttempts {
		return nil, ErrOTPMaxAttempts
	}
	otp.Attempts = attempts

	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(req.Code)) != 1 {
		return nil, ErrOTPInvalid
	}

	consumed, err := s.repo.MarkOTPAsVerified(ctx, otp.ID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, ErrOTPAlreadyUsed
	}

	now := time.Now()
	otp.Verified = true
	otp.VerifiedAt = &now

	return otp, nil
}

// ResendOTP issues a fresh code to the recipient of the outstanding one
func (s *service) ResendOTP(ctx context.Context, req *ResendOTPRequest) (*OTPResponse, error) {
	previous, err := s.repo.GetLatestOTPByRecipient(ctx, req.Recipient, req.Type)
	if err != nil {
		return nil, err
	}

	return s.GenerateOTP(ctx, &SendOTPRequest{
		UserID:    previous.UserID,
		Recipient: previous.Recipient,
		Type:      previous.Type,
		Method:    previous.Method,
	})
}

// CleanupExpiredOTPs removes expired OTPs from the database
func (s *service) CleanupExpiredOTPs(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredOTPs(ctx, time.Now())
}

// generateCode generates a random numeric code
func generateCode(length int) (string, error) {
	const digits = "0123456789"
	code := make([]byte, length)

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		code[i] = digits[num.Int64()]
	}

	return string(code), nil
}

// sendOTP sends the OTP via email or SMS
func (s *service) sendOTP(ctx context.Context, otp *OTP) error {
	switch otp.Method {
	case DeliveryMethodEmail:
		if s.email == nil {
			return errors.New("email sender not configured")
		}
		return s.email.SendKind(ctx, notification.KindOTP, otp.Recipient, map[string]interface{}{
			"code":       otp.Code,
			"expires_in": int(s.config.Expiry.Minutes()),
		})
	case DeliveryMethodSMS:
		if s.smsProvider == nil {
			return errors.New("SMS provider not configured")
		}
		return s.smsProvider.SendSMS(ctx, &SMSMessage{
			To: otp.Recipient,
			Message: fmt.Sprintf("Your Tadhana verification code is: %s. It will expire in %d minutes.",
				otp.Code, int(s.config.Expiry.Minutes())),
		})
	default:
		return fmt.Errorf("unsupported delivery method: %s", otp.Method)
	}
}

// maskRecipient hides most of an email local part or phone number
func maskRecipient(recipient string) string {
	runes := []rune(recipient)
	if len(runes) <= 4 {
		return "****"
	}
	for i := 2; i < len(runes)-2; i++ {
		if runes[i] == '@' {
			break
		}
		runes[i] = '*'
	}
	return string(runes)
}
