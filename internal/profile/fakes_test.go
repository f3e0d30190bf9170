package profile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type fakeRepository struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*User
	profiles map[int64]*Profile
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: map[int64]*User{}, profiles: map[int64]*Profile{}}
}

func (f *fakeRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeRepository) CreateRegistration(ctx context.Context, user *User, profile *Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrEmailTaken
		}
	}
	f.nextID++
	user.ID = f.nextID
	profile.UserID = user.ID
	u, p := *user, *profile
	f.users[user.ID] = &u
	f.profiles[user.ID] = &p
	return nil
}

func (f *fakeRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepository) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepository) GetContact(ctx context.Context, userID int64) (*Contact, error) {
	u, err := f.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Contact{UserID: u.ID, Email: u.Email, FullName: u.FullName, Alias: u.Alias, ParticipationMode: u.ParticipationMode}, nil
}

func (f *fakeRepository) UpdateDocument(ctx context.Context, userID int64, doc Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	p.Document = doc
	return nil
}

func (f *fakeRepository) SetPaymentProof(ctx context.Context, userID int64, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	p.PaymentProofURL = &url
	p.PaymentStatus = PaymentPending
	return nil
}

func (f *fakeRepository) SetPaymentStatus(ctx context.Context, userID int64, status PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	p.PaymentStatus = status
	return nil
}

func (f *fakeRepository) MarkVerified(ctx context.Context, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return false, ErrUserNotFound
	}
	f.profiles[userID].VerificationStatus = VerificationVerified
	if u.Status != StatusPendingVerification {
		return false, nil
	}
	u.Status = StatusWaiting
	return true, nil
}

func (f *fakeRepository) ListRegistrants(ctx context.Context, status UserStatus) ([]*Registrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Registrant
	for id := int64(1); id <= f.nextID; id++ {
		u := f.users[id]
		if status != "" && u.Status != status {
			continue
		}
		out = append(out, &Registrant{User: *u, Profile: *f.profiles[id]})
	}
	return out, nil
}

type memoryFileStore struct {
	files   map[string][]byte
	deleted []string
	n       int
}

func newMemoryFileStore() *memoryFileStore {
	return &memoryFileStore{files: map[string][]byte{}}
}

func (m *memoryFileStore) Save(ctx context.Context, folder, filename, contentType string, body io.ReadSeeker) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	m.n++
	url := fmt.Sprintf("mem://%s/%d-%s", folder, m.n, filename)
	m.files[url] = buf.Bytes()
	return url, nil
}

func (m *memoryFileStore) Delete(ctx context.Context, url string) error {
	delete(m.files, url)
	m.deleted = append(m.deleted, url)
	return nil
}
