package consent

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/tadhana-backend/internal/common/logger"
	"github.com/imadgeboyega/tadhana-backend/internal/notification"
	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

type fakeRepository struct {
	mu       sync.Mutex
	matches  map[int64]*Participants
	consents map[[2]int64]*Consent
	unlocked map[int64]map[Field]bool
}

func newFakeRepository(matches ...*Participants) *fakeRepository {
	f := &fakeRepository{
		matches:  map[int64]*Participants{},
		consents: map[[2]int64]*Consent{},
		unlocked: map[int64]map[Field]bool{},
	}
	for _, m := range matches {
		f.matches[m.MatchID] = m
		f.unlocked[m.MatchID] = map[Field]bool{}
	}
	return f
}

func (f *fakeRepository) GetParticipants(ctx context.Context, matchID int64) (*Participants, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeRepository) Upsert(ctx context.Context, matchID, userID int64, field Field, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]int64{matchID, userID}
	c, ok := f.consents[key]
	if !ok {
		c = &Consent{MatchID: matchID, UserID: userID}
		f.consents[key] = c
	}
	if field == FieldReveal {
		c.ConsentReveal = value
	} else {
		c.ConsentChat = value
	}
	return nil
}

func (f *fakeRepository) GetPair(ctx context.Context, p *Participants, field Field) (Pair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	get := func(userID int64) bool {
		c, ok := f.consents[[2]int64{p.MatchID, userID}]
		if !ok {
			return false
		}
		if field == FieldReveal {
			return c.ConsentReveal
		}
		return c.ConsentChat
	}
	return Pair{First: get(p.User1ID), Second: get(p.User2ID)}, nil
}

func (f *fakeRepository) MarkUnlocked(ctx context.Context, matchID int64, field Field) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unlocked[matchID][field] {
		return false, nil
	}
	f.unlocked[matchID][field] = true
	return true, nil
}

type sent struct {
	kind notification.Kind
	to   string
	data map[string]interface{}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sent
}

func (n *recordingNotifier) Notify(ctx context.Context, kind notification.Kind, to string, data map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sent{kind: kind, to: to, data: data})
}

type fakeContacts map[int64]*profile.Contact

func (f fakeContacts) GetContact(ctx context.Context, userID int64) (*profile.Contact, error) {
	c, ok := f[userID]
	if !ok {
		return nil, profile.ErrUserNotFound
	}
	return c, nil
}

var testContacts = fakeContacts{
	1: {UserID: 1, Email: "ana@up.edu.ph", FullName: "Ana Cruz", Alias: "QuietFern42", ParticipationMode: profile.ModeFull},
	2: {UserID: 2, Email: "bea@up.edu.ph", FullName: "Bea Lim", Alias: "BraveOtter07", ParticipationMode: profile.ModeAnonymous},
}

func newTestService(repo Repository, notifier notification.Notifier) Service {
	return NewService(repo, testContacts, notifier, logger.NewNop())
}

func activeMatch() *Participants {
	return &Participants{MatchID: 10, User1ID: 1, User2ID: 2, Active: true}
}

func TestChatUnlocksOnlyWhenBothConsent(t *testing.T) {
	for _, order := range [][2]int64{{1, 2}, {2, 1}} {
		repo := newFakeRepository(activeMatch())
		svc := newTestService(repo, &recordingNotifier{})
		ctx := context.Background()

		state, err := svc.SetChatConsent(ctx, 10, order[0], true)
		require.NoError(t, err)
		assert.True(t, state.ChatConsent)
		assert.False(t, state.ChatUnlocked)

		state, err = svc.SetChatConsent(ctx, 10, order[1], true)
		require.NoError(t, err)
		assert.True(t, state.ChatUnlocked)
		assert.False(t, state.Revealed)

		ok, err := svc.BothConsented(ctx, 10, FieldChat)
		require.NoError(t, err)
		assert.True(t, ok)

		state, err = svc.SetChatConsent(ctx, 10, order[0], false)
		require.NoError(t, err)
		assert.False(t, state.ChatUnlocked, "withdrawing consent locks chat again")
	}
}

func TestRevealEmailsOnceWithPartnerMode(t *testing.T) {
	repo := newFakeRepository(activeMatch())
	notifier := &recordingNotifier{}
	svc := newTestService(repo, notifier)
	ctx := context.Background()

	_, err := svc.SetRevealConsent(ctx, 10, 1, true)
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)

	state, err := svc.SetRevealConsent(ctx, 10, 2, true)
	require.NoError(t, err)
	assert.True(t, state.Revealed)
	require.Len(t, notifier.sent, 2)

	byRecipient := map[string]sent{}
	for _, s := range notifier.sent {
		byRecipient[s.to] = s
	}

	toAna := byRecipient["ana@up.edu.ph"]
	assert.Equal(t, notification.KindRevealAnonymous, toAna.kind)
	assert.Equal(t, "BraveOtter07", toAna.data["partner_alias"])
	assert.Equal(t, "bea@up.edu.ph", toAna.data["partner_email"])
	assert.NotContains(t, toAna.data, "partner_name")

	toBea := byRecipient["bea@up.edu.ph"]
	assert.Equal(t, notification.KindRevealFull, toBea.kind)
	assert.Equal(t, "Ana Cruz", toBea.data["partner_name"])

	// Re-setting or toggling never re-sends
	_, err = svc.SetRevealConsent(ctx, 10, 2, true)
	require.NoError(t, err)
	_, err = svc.SetRevealConsent(ctx, 10, 1, false)
	require.NoError(t, err)
	_, err = svc.SetRevealConsent(ctx, 10, 1, true)
	require.NoError(t, err)
	assert.Len(t, notifier.sent, 2)
}

func TestChatUnlockSendsNoEmail(t *testing.T) {
	repo := newFakeRepository(activeMatch())
	notifier := &recordingNotifier{}
	svc := newTestService(repo, notifier)

	_, err := svc.SetChatConsent(context.Background(), 10, 1, true)
	require.NoError(t, err)
	_, err = svc.SetChatConsent(context.Background(), 10, 2, true)
	require.NoError(t, err)

	assert.Empty(t, notifier.sent)
	assert.True(t, repo.unlocked[10][FieldChat])
}

func TestSetConsentRejections(t *testing.T) {
	inactive := &Participants{MatchID: 11, User1ID: 1, User2ID: 2, Active: false}
	repo := newFakeRepository(activeMatch(), inactive)
	svc := newTestService(repo, &recordingNotifier{})
	ctx := context.Background()

	_, err := svc.SetChatConsent(ctx, 10, 3, true)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = svc.SetChatConsent(ctx, 11, 1, true)
	assert.ErrorIs(t, err, ErrMatchInactive)

	_, err = svc.SetRevealConsent(ctx, 404, 1, true)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = svc.GetState(ctx, 10, 3)
	assert.ErrorIs(t, err, ErrNotParticipant)

	// Reading a retired match is still allowed
	state, err := svc.GetState(ctx, 11, 2)
	require.NoError(t, err)
	assert.False(t, state.ChatUnlocked)
}

func TestGetStateShowsCallerSlot(t *testing.T) {
	repo := newFakeRepository(activeMatch())
	svc := newTestService(repo, &recordingNotifier{})
	ctx := context.Background()

	_, err := svc.SetRevealConsent(ctx, 10, 2, true)
	require.NoError(t, err)

	mine, err := svc.GetState(ctx, 10, 2)
	require.NoError(t, err)
	assert.True(t, mine.RevealConsent)

	theirs, err := svc.GetState(ctx, 10, 1)
	require.NoError(t, err)
	assert.False(t, theirs.RevealConsent)
	assert.False(t, theirs.Revealed)
}
