package profile

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/tadhana-backend/internal/common/logger"
)

func newTestService(t *testing.T) (Service, *fakeRepository, *memoryFileStore) {
	t.Helper()
	repo := newFakeRepository()
	files := newMemoryFileStore()
	return NewService(repo, files, 1024, logger.NewNop()), repo, files
}

func registerRequest(email string) *RegisterRequest {
	return &RegisterRequest{
		Email:             email,
		FullName:          "Juan dela Cruz",
		ParticipationMode: ModeAnonymous,
		PaymentReference:  " 1009 223 4455 ",
		Profile: Document{
			College:   "Engineering",
			Interests: []string{" Gaming", "music", "Music", ""},
			Personality: Personality{MBTI: "intj"},
		},
	}
}

func TestRegister_CreatesPendingRegistrant(t *testing.T) {
	svc, repo, _ := newTestService(t)

	user, err := svc.Register(context.Background(), registerRequest("Juan@UP.edu.ph"))
	require.NoError(t, err)

	assert.Equal(t, "juan@up.edu.ph", user.Email)
	assert.Equal(t, StatusPendingVerification, user.Status)
	assert.NotEmpty(t, user.Alias, "alias is generated when omitted")

	p, err := repo.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gaming", "music"}, p.Document.Interests)
	assert.Equal(t, "INTJ", p.Document.Personality.MBTI)
	assert.Equal(t, "1009 223 4455", p.PaymentReference)
	assert.Equal(t, PaymentPending, p.PaymentStatus)
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), registerRequest("a@up.edu.ph"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest("A@up.edu.ph"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestMarkVerified_OnlyMovesPendingUsers(t *testing.T) {
	svc, repo, _ := newTestService(t)
	user, err := svc.Register(context.Background(), registerRequest("a@up.edu.ph"))
	require.NoError(t, err)

	moved, err := svc.MarkVerified(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = svc.MarkVerified(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, moved)

	u, _ := repo.GetUserByID(context.Background(), user.ID)
	assert.Equal(t, StatusWaiting, u.Status)
}

func TestUploadPaymentProof(t *testing.T) {
	svc, repo, files := newTestService(t)
	user, err := svc.Register(context.Background(), registerRequest("a@up.edu.ph"))
	require.NoError(t, err)

	_, err = svc.UploadPaymentProof(context.Background(), user.ID, "proof.exe", "", 10, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidProofFormat)

	_, err = svc.UploadPaymentProof(context.Background(), user.ID, "proof.png", "image/png", 4096, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrProofTooLarge)

	first, err := svc.UploadPaymentProof(context.Background(), user.ID, "gcash.png", "image/png", 3, strings.NewReader("png"))
	require.NoError(t, err)
	second, err := svc.UploadPaymentProof(context.Background(), user.ID, "gcash.jpg", "image/jpeg", 3, strings.NewReader("jpg"))
	require.NoError(t, err)

	p, _ := repo.GetProfile(context.Background(), user.ID)
	require.NotNil(t, p.PaymentProofURL)
	assert.Equal(t, second, *p.PaymentProofURL)
	assert.Equal(t, []string{first}, files.deleted, "the replaced proof is removed")
}

func TestSetPaymentStatus_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	assert.ErrorIs(t, svc.SetPaymentStatus(context.Background(), 99, PaymentVerified), ErrProfileNotFound)
}

func TestIsOpen(t *testing.T) {
	for _, v := range []string{"", "  ", "Any", "any", "No preference"} {
		assert.True(t, IsOpen(v), v)
	}
	assert.False(t, IsOpen("Engineering"))
}

func TestGenerateAlias(t *testing.T) {
	alias, err := generateAlias()
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z][a-z]+[A-Z][a-z]+\d{2}$`, alias)
}
