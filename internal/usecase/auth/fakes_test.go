package auth

import (
	"context"
	"sync"
	"time"

	"ecommerce-backend/internal/domain/otp"
	domainUser "ecommerce-backend/internal/domain/user"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the users and otps tables.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users map[uuid.UUID]*domainUser.User
	otps  []*otp.Record

	refreshLookups int
	failWith       error
	// createErr makes the next user insert fail, as a lost unique-index race would.
	createErr error
}

func newMemStore() *memStore {
	return &memStore{users: make(map[uuid.UUID]*domainUser.User)}
}

func (s *memStore) snapshot() (map[uuid.UUID]domainUser.User, []otp.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make(map[uuid.UUID]domainUser.User, len(s.users))
	for id, u := range s.users {
		users[id] = *u
	}
	otps := make([]otp.Record, len(s.otps))
	for i, r := range s.otps {
		otps[i] = *r
	}
	return users, otps
}

func (s *memStore) restore(users map[uuid.UUID]domainUser.User, otps []otp.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[uuid.UUID]*domainUser.User, len(users))
	for id, u := range users {
		u := u
		s.users[id] = &u
	}
	s.otps = make([]*otp.Record, len(otps))
	for i := range otps {
		r := otps[i]
		s.otps[i] = &r
	}
}

func (s *memStore) userByEmail(email string) *domainUser.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c
		}
	}
	return nil
}

func (s *memStore) otpsFor(id domainUser.Identifier) []otp.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []otp.Record
	for _, r := range s.otps {
		if id.Matches(r.Email, r.Mobile) {
			out = append(out, *r)
		}
	}
	return out
}

type fakeTxRunner struct {
	store *memStore
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(users domainUser.Repository, otps otp.Repository) error) error {
	f.store.txMu.Lock()
	defer f.store.txMu.Unlock()

	users, otps := f.store.snapshot()
	if err := fn(&fakeUserRepo{store: f.store}, &fakeOTPRepo{store: f.store}); err != nil {
		f.store.restore(users, otps)
		return err
	}
	return nil
}

type fakeUserRepo struct {
	store *memStore
}

func (r *fakeUserRepo) Create(_ context.Context, u *domainUser.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failWith != nil {
		return r.store.failWith
	}
	if err := r.store.createErr; err != nil {
		r.store.createErr = nil
		return err
	}
	for _, existing := range r.store.users {
		if existing.Email == u.Email {
			return domainUser.ErrUserAlreadyExists
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	c := *u
	r.store.users[u.ID] = &c
	return nil
}

func (r *fakeUserRepo) find(match func(u *domainUser.User) bool) (*domainUser.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failWith != nil {
		return nil, r.store.failWith
	}
	for _, u := range r.store.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*domainUser.User, error) {
	return r.find(func(u *domainUser.User) bool { return u.ID == userID })
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domainUser.User, error) {
	return r.find(func(u *domainUser.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByLogin(_ context.Context, identifier string) (*domainUser.User, error) {
	return r.find(func(u *domainUser.User) bool { return u.Email == identifier || u.Mobile == identifier })
}

func (r *fakeUserRepo) GetByIdentifier(_ context.Context, id domainUser.Identifier) (*domainUser.User, error) {
	return r.find(func(u *domainUser.User) bool { return id.Matches(u.Email, u.Mobile) })
}

func (r *fakeUserRepo) GetByRefreshToken(_ context.Context, userID uuid.UUID, token string) (*domainUser.User, error) {
	r.store.mu.Lock()
	r.store.refreshLookups++
	r.store.mu.Unlock()
	return r.find(func(u *domainUser.User) bool {
		return u.ID == userID && u.RefreshToken != nil && *u.RefreshToken == token
	})
}

func (r *fakeUserRepo) GetAll(_ context.Context) ([]*domainUser.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*domainUser.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		c := *u
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeUserRepo) update(userID uuid.UUID, apply func(u *domainUser.User)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failWith != nil {
		return r.store.failWith
	}
	u, ok := r.store.users[userID]
	if !ok {
		return domainUser.ErrUserNotFound
	}
	apply(u)
	u.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) ResetRegistration(_ context.Context, in *domainUser.User) error {
	return r.update(in.ID, func(u *domainUser.User) {
		u.Name = in.Name
		u.Mobile = in.Mobile
		u.PasswordHashed = in.PasswordHashed
		u.IsVerified = false
	})
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, userID uuid.UUID) error {
	return r.update(userID, func(u *domainUser.User) { u.IsVerified = true })
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID uuid.UUID, hash string) error {
	return r.update(userID, func(u *domainUser.User) { u.PasswordHashed = hash })
}

func (r *fakeUserRepo) SetRefreshToken(_ context.Context, userID uuid.UUID, token string) error {
	return r.update(userID, func(u *domainUser.User) { u.RefreshToken = &token })
}

type fakeOTPRepo struct {
	store *memStore
}

func (r *fakeOTPRepo) UpsertSignup(_ context.Context, record *otp.Record) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	record.Purpose = otp.PurposeSignup
	for _, existing := range r.store.otps {
		if existing.Email == record.Email && existing.Purpose == otp.PurposeSignup {
			existing.Code = record.Code
			existing.Mobile = record.Mobile
			existing.ExpiresAt = record.ExpiresAt
			return nil
		}
	}
	c := *record
	c.ID = uuid.New()
	r.store.otps = append(r.store.otps, &c)
	return nil
}

func (r *fakeOTPRepo) Create(_ context.Context, record *otp.Record) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *record
	c.ID = uuid.New()
	r.store.otps = append(r.store.otps, &c)
	return nil
}

func (r *fakeOTPRepo) FindValid(_ context.Context, id domainUser.Identifier, code string, purpose otp.Purpose, now time.Time) (*otp.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := len(r.store.otps) - 1; i >= 0; i-- {
		rec := r.store.otps[i]
		if id.Matches(rec.Email, rec.Mobile) && rec.Code == code && rec.Purpose == purpose && rec.ExpiresAt.After(now) {
			c := *rec
			return &c, nil
		}
	}
	return nil, otp.ErrOTPNotFound
}

func (r *fakeOTPRepo) DeleteByIdentifier(_ context.Context, id domainUser.Identifier) (int64, error) {
	return r.deleteWhere(func(rec *otp.Record) bool { return id.Matches(rec.Email, rec.Mobile) })
}

func (r *fakeOTPRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	return r.deleteWhere(func(rec *otp.Record) bool { return rec.ExpiresAt.Before(before) })
}

func (r *fakeOTPRepo) deleteWhere(match func(rec *otp.Record) bool) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.otps[:0]
	var deleted int64
	for _, rec := range r.store.otps {
		if match(rec) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	r.store.otps = kept
	return deleted, nil
}
