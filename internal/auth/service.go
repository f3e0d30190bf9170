// internal/auth/service.go

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/imadgeboyega/tadhana-backend/internal/common/logger"
	"github.com/imadgeboyega/tadhana-backend/internal/common/utils"
	"github.com/imadgeboyega/tadhana-backend/internal/otp"
	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account is not verified yet")
	ErrAlreadyVerified    = errors.New("account is already verified")
	ErrTooManyAttempts    = errors.New("too many failed attempts")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNoPhone            = errors.New("no phone number on file")
)

// Service defines the auth service interface
type Service interface {
	Signup(ctx context.Context, req *profile.RegisterRequest) (*SignupResponse, error)
	VerifySignup(ctx context.Context, req *VerifyRequest) (*AuthResponse, error)
	RequestSignin(ctx context.Context, req *SigninRequest) (*otp.OTPResponse, error)
	VerifySignin(ctx context.Context, req *VerifyRequest) (*AuthResponse, error)
	AdminLogin(ctx context.Context, req *AdminLoginRequest) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
}

type service struct {
	profiles   profile.Service
	otpService otp.Service
	redis      *redis.Client
	config     *Config
	log        *logger.Logger
}

// NewService creates a new auth service. redis may be nil, which disables
// admin login lockout.
func NewService(profiles profile.Service, otpService otp.Service, redis *redis.Client, config *Config, log *logger.Logger) Service {
	if config.MaxLoginFailures <= 0 {
		config.MaxLoginFailures = 5
	}
	if config.LockoutWindow <= 0 {
		config.LockoutWindow = 15 * time.Minute
	}
	return &service{
		profiles:   profiles,
		otpService: otpService,
		redis:      redis,
		config:     config,
		log:        log.With("component", "auth"),
	}
}

// Signup registers the user and sends a verification code
func (s *service) Signup(ctx context.Context, req *profile.RegisterRequest) (*SignupResponse, error) {
	user, err := s.profiles.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := &SignupResponse{User: user, RequiresVerification: true}

	sent, err := s.otpService.GenerateOTP(ctx, &otp.SendOTPRequest{
		UserID:    user.ID,
		Recipient: user.Email,
		Type:      otp.OTPTypeSignup,
		Method:    otp.DeliveryMethodEmail,
	})
	if err != nil {
		// Registration stands; the user can ask for a resend
		s.log.Warn("failed to send signup OTP", "user_id", user.ID, "error", err)
		resp.Message = "Registered. We could not send your verification code, please request a resend."
		return resp, nil
	}

	resp.OTP = sent
	resp.Message = sent.Message
	return resp, nil
}

// VerifySignup consumes the signup code and moves the user into the pool
func (s *service) VerifySignup(ctx context.Context, req *VerifyRequest) (*AuthResponse, error) {
	user, err := s.profiles.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, profile.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Status != profile.StatusPendingVerification {
		return nil, ErrAlreadyVerified
	}

	code, err := s.otpService.VerifyOTP(ctx, &otp.VerifyOTPRequest{
		Recipient: user.Email,
		Code:      req.Code,
		Type:      otp.OTPTypeSignup,
	})
	if err != nil {
		return nil, err
	}
	if code.UserID != user.ID {
		return nil, ErrInvalidCredentials
	}

	if _, err := s.profiles.MarkVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}
	user.Status = profile.StatusWaiting

	s.log.Info("registrant verified", "user_id", user.ID)
	return s.issueUserToken(user)
}

// RequestSignin sends a sign-in code to a verified user
func (s *service) RequestSignin(ctx context.Context, req *SigninRequest) (*otp.OTPResponse, error) {
	user, err := s.profiles.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, profile.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Status == profile.StatusPendingVerification {
		return nil, ErrNotVerified
	}

	recipient, method, err := signinRecipient(user, req.Method)
	if err != nil {
		return nil, err
	}

	return s.otpService.GenerateOTP(ctx, &otp.SendOTPRequest{
		UserID:    user.ID,
		Recipient: recipient,
		Type:      otp.OTPTypeSignin,
		Method:    method,
	})
}

// VerifySignin exchanges a sign-in code for an access token
func (s *service) VerifySignin(ctx context.Context, req *VerifyRequest) (*AuthResponse, error) {
	user, err := s.profiles.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, profile.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	recipient, _, err := signinRecipient(user, req.Method)
	if err != nil {
		return nil, err
	}

	code, err := s.otpService.VerifyOTP(ctx, &otp.VerifyOTPRequest{
		Recipient: recipient,
		Code:      req.Code,
		Type:      otp.OTPTypeSignin,
	})
	if err != nil {
		return nil, err
	}
	if code.UserID != user.ID {
		return nil, ErrInvalidCredentials
	}

	return s.issueUserToken(user)
}

// AdminLogin checks the configured admin credentials
func (s *service) AdminLogin(ctx context.Context, req *AdminLoginRequest) (*AuthResponse, error) {
	username := strings.TrimSpace(req.Username)

	if s.isLockedOut(ctx, username) {
		return nil, ErrTooManyAttempts
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.config.AdminUsername)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		s.recordFailedAttempt(ctx, username)
		s.log.Warn("admin login failed", "username", username)
		return nil, ErrInvalidCredentials
	}
	s.clearFailedAttempts(ctx, username)

	token, err := utils.GenerateJWT(&utils.JWTClaims{
		Email:  username,
		Role:   utils.RoleAdmin,
		Issuer: "tadhana",
	}, s.config.JWTSecret, s.config.AdminTokenExpiry)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.config.AdminTokenExpiry.Seconds()),
		Role:        utils.RoleAdmin,
	}, nil
}

// ValidateToken parses and checks an access token
func (s *service) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := utils.ValidateJWT(token, s.config.JWTSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *service) issueUserToken(user *profile.User) (*AuthResponse, error) {
	token, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   utils.RoleUser,
		Issuer: "tadhana",
	}, s.config.JWTSecret, s.config.AccessTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		User:        user,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.config.AccessTokenExpiry.Seconds()),
		Role:        utils.RoleUser,
	}, nil
}

func signinRecipient(user *profile.User, method otp.DeliveryMethod) (string, otp.DeliveryMethod, error) {
	if method == otp.DeliveryMethodSMS {
		if user.Phone == nil || *user.Phone == "" {
			return "", "", ErrNoPhone
		}
		return *user.Phone, otp.DeliveryMethodSMS, nil
	}
	return user.Email, otp.DeliveryMethodEmail, nil
}

func failureKey(username string) string {
	return fmt.Sprintf("admin_login_failures:%s", strings.ToLower(username))
}

func (s *service) isLockedOut(ctx context.Context, username string) bool {
	if s.redis == nil {
		return false
	}
	count, err := s.redis.Get(ctx, failureKey(username)).Int()
	if err != nil {
		return false
	}
	return count >= s.config.MaxLoginFailures
}

func (s *service) recordFailedAttempt(ctx context.Context, username string) {
	if s.redis == nil {
		return
	}
	key := failureKey(username)
	pipe := s.redis.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.config.LockoutWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn("failed to record login failure", "error", err)
	}
}

func (s *service) clearFailedAttempts(ctx context.Context, username string) {
	if s.redis == nil {
		return
	}
	s.redis.Del(ctx, failureKey(username))
}
