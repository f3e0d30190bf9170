package matching

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/imadgeboyega/tadhana-backend/internal/notification"
	"github.com/imadgeboyega/tadhana-backend/internal/profile"
)

type fakeRepository struct {
	mu         sync.Mutex
	candidates map[int64]*Candidate
	matches    []*Match
	flags      map[int64]*MatchFlags
	nextID     int64

	// stealOnPair flips a user to matched just before their pairing commits
	stealOnPair map[int64]bool
	failPairing error
}

func newFakeRepository(candidates ...*Candidate) *fakeRepository {
	f := &fakeRepository{
		candidates:  map[int64]*Candidate{},
		flags:       map[int64]*MatchFlags{},
		stealOnPair: map[int64]bool{},
	}
	for _, c := range candidates {
		if c.Status == "" {
			c.Status = profile.StatusWaiting
		}
		f.candidates[c.ID] = c
	}
	return f
}

func (f *fakeRepository) ListWaitingCandidates(ctx context.Context) ([]*Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Candidate
	for _, c := range f.candidates {
		if c.Status == profile.StatusWaiting {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeRepository) GetCandidate(ctx context.Context, userID int64) (*Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeRepository) CreatePairing(ctx context.Context, p *Pairing) (*Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPairing != nil {
		return nil, f.failPairing
	}
	for _, id := range []int64{p.User1ID, p.User2ID} {
		if f.stealOnPair[id] {
			f.candidates[id].Status = profile.StatusMatched
		}
	}
	u, v := f.candidates[p.User1ID], f.candidates[p.User2ID]
	if u == nil || v == nil || u.Status != profile.StatusWaiting || v.Status != profile.StatusWaiting {
		return nil, ErrPairConflict
	}
	u.Status = profile.StatusMatched
	v.Status = profile.StatusMatched

	f.nextID++
	m := &Match{
		ID:        f.nextID,
		User1ID:   p.User1ID,
		User2ID:   p.User2ID,
		Score:     p.Score,
		Reasons:   p.Reasons,
		Source:    p.Source,
		Active:    true,
		CreatedAt: time.Now().Add(time.Duration(f.nextID) * time.Millisecond),
	}
	f.matches = append(f.matches, m)
	f.flags[m.ID] = &MatchFlags{}
	return m, nil
}

func (f *fakeRepository) GetMatch(ctx context.Context, matchID int64) (*Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.matches {
		if m.ID == matchID {
			return m, nil
		}
	}
	return nil, ErrMatchNotFound
}

func (f *fakeRepository) GetActiveMatchForUser(ctx context.Context, userID int64) (*Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var newest *Match
	for _, m := range f.matches {
		if m.Active && m.PartnerOf(userID) != 0 {
			if newest == nil || m.CreatedAt.After(newest.CreatedAt) {
				newest = m
			}
		}
	}
	if newest == nil {
		return nil, ErrNoActiveMatch
	}
	return newest, nil
}

func (f *fakeRepository) GetFlags(ctx context.Context, matchID, userID int64) (*MatchFlags, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	flags, ok := f.flags[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	copied := *flags
	return &copied, nil
}

func (f *fakeRepository) DeactivateForUser(ctx context.Context, userID int64) (*Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var retired *Match
	for _, m := range f.matches {
		if m.Active && m.PartnerOf(userID) != 0 {
			m.Active = false
			f.candidates[m.User1ID].Status = profile.StatusWaiting
			f.candidates[m.User2ID].Status = profile.StatusWaiting
			retired = m
		}
	}
	if retired == nil {
		return nil, ErrNoActiveMatch
	}
	return retired, nil
}

func (f *fakeRepository) ListMatches(ctx context.Context, activeOnly bool) ([]*MatchListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*MatchListing
	for _, m := range f.matches {
		if activeOnly && !m.Active {
			continue
		}
		out = append(out, &MatchListing{Match: *m})
	}
	return out, nil
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

// stalledTransport accepts emails only after release is closed
type stalledTransport struct {
	release chan struct{}
	mu      sync.Mutex
	to      []string
}

func (t *stalledTransport) Name() string { return "stalled" }

func (t *stalledTransport) Send(ctx context.Context, email *notification.Email) error {
	<-t.release
	t.mu.Lock()
	defer t.mu.Unlock()
	t.to = append(t.to, email.To)
	return nil
}

func (t *stalledTransport) delivered() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.to)
}

type fakeContacts map[int64]*profile.Contact

func (f fakeContacts) GetContact(ctx context.Context, userID int64) (*profile.Contact, error) {
	c, ok := f[userID]
	if !ok {
		return nil, profile.ErrUserNotFound
	}
	return c, nil
}

type fakeLocker struct {
	mu   sync.Mutex
	held bool
}

func (l *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return nil, ErrLockHeld
	}
	l.held = true
	return func() {
		l.mu.Lock()
		l.held = false
		l.mu.Unlock()
	}, nil
}
