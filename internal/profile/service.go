// internal/profile/service.go

package profile

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/imadgeboyega/tadhana-backend/internal/common/logger"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidProofFormat = errors.New("payment proof must be a JPG, PNG or PDF")
	ErrProofTooLarge      = errors.New("payment proof exceeds size limit")
)

var allowedProofExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// Service defines the profile service interface
type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*User, error)
	GetMyProfile(ctx context.Context, userID int64) (*ProfileResponse, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetContact(ctx context.Context, userID int64) (*Contact, error)
	UpdateDocument(ctx context.Context, userID int64, doc Document) (*Profile, error)
	UploadPaymentProof(ctx context.Context, userID int64, filename, contentType string, size int64, body io.ReadSeeker) (string, error)
	SetPaymentStatus(ctx context.Context, userID int64, status PaymentStatus) error
	MarkVerified(ctx context.Context, userID int64) (bool, error)
	ListRegistrants(ctx context.Context, status UserStatus) ([]*Registrant, error)
}

type service struct {
	repo          Repository
	files         FileStore
	maxUploadSize int64
	log           *logger.Logger
}

// NewService creates a new profile service
func NewService(repo Repository, files FileStore, maxUploadSize int64, log *logger.Logger) Service {
	return &service{
		repo:          repo,
		files:         files,
		maxUploadSize: maxUploadSize,
		log:           log.With("component", "profile"),
	}
}

// Register creates a pending registrant. The email pre-check gives a friendly
// error; the unique index catches the race between two signups.
func (s *service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	alias := strings.TrimSpace(req.Alias)
	if alias == "" {
		if alias, err = generateAlias(); err != nil {
			return nil, fmt.Errorf("failed to generate alias: %w", err)
		}
	}

	user := &User{
		Email:             email,
		FullName:          strings.TrimSpace(req.FullName),
		Alias:             alias,
		ParticipationMode: req.ParticipationMode,
		Status:            StatusPendingVerification,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	profile := &Profile{
		Document:           normalizeDocument(req.Profile),
		PaymentReference:   strings.TrimSpace(req.PaymentReference),
		PaymentStatus:      PaymentPending,
		VerificationStatus: VerificationPending,
	}

	if err := s.repo.CreateRegistration(ctx, user, profile); err != nil {
		return nil, err
	}

	s.log.Info("registrant created", "user_id", user.ID, "mode", user.ParticipationMode)
	return user, nil
}

func (s *service) GetMyProfile(ctx context.Context, userID int64) (*ProfileResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{User: user, Profile: profile}, nil
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
}

func (s *service) GetContact(ctx context.Context, userID int64) (*Contact, error) {
	return s.repo.GetContact(ctx, userID)
}

func (s *service) UpdateDocument(ctx context.Context, userID int64, doc Document) (*Profile, error) {
	if err := s.repo.UpdateDocument(ctx, userID, normalizeDocument(doc)); err != nil {
		return nil, err
	}
	return s.repo.GetProfile(ctx, userID)
}

func (s *service) UploadPaymentProof(ctx context.Context, userID int64, filename, contentType string, size int64, body io.ReadSeeker) (string, error) {
	if s.maxUploadSize > 0 && size > s.maxUploadSize {
		return "", ErrProofTooLarge
	}
	if !allowedProofExtensions[strings.ToLower(filepath.Ext(filename))] {
		return "", ErrInvalidProofFormat
	}

	previous, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.files.Save(ctx, "payment-proofs", filename, contentType, body)
	if err != nil {
		return "", err
	}

	if err := s.repo.SetPaymentProof(ctx, userID, url); err != nil {
		if delErr := s.files.Delete(ctx, url); delErr != nil {
			s.log.Warn("failed to remove orphaned upload", "url", url, "error", delErr)
		}
		return "", err
	}

	if previous.PaymentProofURL != nil && *previous.PaymentProofURL != "" {
		if err := s.files.Delete(ctx, *previous.PaymentProofURL); err != nil {
			s.log.Warn("failed to remove replaced payment proof", "user_id", userID, "error", err)
		}
	}

	return url, nil
}

func (s *service) SetPaymentStatus(ctx context.Context, userID int64, status PaymentStatus) error {
	if err := s.repo.SetPaymentStatus(ctx, userID, status); err != nil {
		return err
	}
	s.log.Info("payment status updated", "user_id", userID, "status", status)
	return nil
}

func (s *service) MarkVerified(ctx context.Context, userID int64) (bool, error) {
	return s.repo.MarkVerified(ctx, userID)
}

func (s *service) ListRegistrants(ctx context.Context, status UserStatus) ([]*Registrant, error) {
	return s.repo.ListRegistrants(ctx, status)
}

// normalizeDocument trims values and drops blank or duplicate interests
func normalizeDocument(doc Document) Document {
	seen := make(map[string]bool, len(doc.Interests))
	interests := make([]string, 0, len(doc.Interests))
	for _, interest := range doc.Interests {
		interest = strings.TrimSpace(interest)
		key := strings.ToLower(interest)
		if interest == "" || seen[key] {
			continue
		}
		seen[key] = true
		interests = append(interests, interest)
	}
	doc.Interests = interests

	doc.College = strings.TrimSpace(doc.College)
	doc.Course = strings.TrimSpace(doc.Course)
	doc.YearLevel = strings.TrimSpace(doc.YearLevel)
	doc.SOGIESC.Orientation = strings.TrimSpace(doc.SOGIESC.Orientation)
	doc.Personality.MBTI = strings.ToUpper(strings.TrimSpace(doc.Personality.MBTI))
	return doc
}

var (
	aliasAdjectives = []string{"Quiet", "Lucky", "Sunny", "Brave", "Gentle", "Curious", "Mellow", "Witty", "Starry", "Cozy"}
	aliasNouns      = []string{"Maya", "Tarsier", "Sampaguita", "Narra", "Pawikan", "Agila", "Bituin", "Alon", "Ulap", "Buwan"}
)

// generateAlias returns something like "StarryPawikan42"
func generateAlias() (string, error) {
	pick := func(n int) (int, error) {
		v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
		if err != nil {
			return 0, err
		}
		return int(v.Int64()), nil
	}

	a, err := pick(len(aliasAdjectives))
	if err != nil {
		return "", err
	}
	n, err := pick(len(aliasNouns))
	if err != nil {
		return "", err
	}
	d, err := pick(100)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s%02d", aliasAdjectives[a], aliasNouns[n], d), nil
}
