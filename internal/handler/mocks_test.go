package handler

// In-memory store doubles used across the handler tests.  They implement
// the repository interfaces with the same semantics the MySQL
// implementations get from their UNIQUE keys and conditional UPDATE:
// duplicate inserts are rejected atomically and a session transitions
// active -> inactive at most once.

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/restaurant-finder/internal/model"
	"github.com/iliyamo/restaurant-finder/internal/places"
	"github.com/iliyamo/restaurant-finder/internal/repository"
)

type memUserStore struct {
	mu    sync.Mutex
	seq   uint64
	users []model.User
}

func newMemUserStore() *memUserStore { return &memUserStore{} }

func (s *memUserStore) Create(_ context.Context, username, email, passwordHash string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return 0, repository.ErrUserExists
		}
	}
	s.seq++
	s.users = append(s.users, model.User{
		ID:           s.seq,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	})
	return s.seq, nil
}

func (s *memUserStore) GetByUsernameOrEmail(_ context.Context, username, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

type memSessionStore struct {
	mu        sync.Mutex
	rows      map[string]*model.SessionToken
	findCalls int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{rows: map[string]*model.SessionToken{}}
}

func (s *memSessionStore) Create(_ context.Context, userID uint64, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[token]; ok {
		return repository.ErrDuplicateToken
	}
	s.rows[token] = &model.SessionToken{
		UserID:    userID,
		Token:     token,
		Status:    model.SessionActive,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *memSessionStore) FindActive(_ context.Context, token string, userID uint64, now time.Time) (model.SessionToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++
	row, ok := s.rows[token]
	if !ok || row.UserID != userID || row.Status != model.SessionActive || !row.ExpiresAt.After(now) {
		return model.SessionToken{}, repository.ErrTokenNotFound
	}
	return *row, nil
}

func (s *memSessionStore) Deactivate(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[token]
	if !ok || row.Status != model.SessionActive {
		return repository.ErrTokenNotFound
	}
	row.Status = model.SessionInactive
	return nil
}

// failingSessionStore rejects every create, simulating a store fault at
// session-persistence time.
type failingSessionStore struct{ memSessionStore }

func (s *failingSessionStore) Create(context.Context, uint64, string, time.Time) error {
	return context.DeadlineExceeded
}

type memSearchStore struct {
	mu   sync.Mutex
	recs []model.SearchRecord
}

func newMemSearchStore() *memSearchStore { return &memSearchStore{} }

func (s *memSearchStore) Create(_ context.Context, rec model.SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append([]model.SearchRecord{rec}, s.recs...)
	return nil
}

func (s *memSearchStore) ListByUser(_ context.Context, userID uint64) ([]model.SearchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.SearchRecord
	for _, rec := range s.recs {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// stubFinder returns canned results, or an error when set.
type stubFinder struct {
	results []places.Restaurant
	err     error
	lastQ   places.Query
}

func (f *stubFinder) FindRestaurants(_ context.Context, q places.Query) ([]places.Restaurant, error) {
	f.lastQ = q
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}
