package mockapi

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"praxis/internal/auth/models"
	dErrors "praxis/pkg/domain-errors"
)

// ErrNotFound is returned when a requested record is not found in a store.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "record not found")

// User is a seeded account. Offices maps office id to the profiles the user
// holds there.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	SystemAdmin  bool
	Offices      map[int64][]string
}

// Office is a seeded office (tenant).
type Office struct {
	ID        int64
	TradeName string
	LegalName string
	Color     string
}

// sessionRecord tracks one login: the opaque refresh token, the device the
// login came from, and the operating context once committed.
type sessionRecord struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	RefreshToken string
	Device       string
	CreatedAt    time.Time
	Context      *models.OperatingContext
}

// In-memory stores keep the fake backend lightweight and testable.
// They intentionally favor clarity over performance.

type userStore struct {
	mu    sync.RWMutex
	users map[string]*User // keyed by email
}

func newUserStore() *userStore {
	return &userStore{users: make(map[string]*User)}
}

func (s *userStore) save(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Email] = u
}

func (s *userStore) findByEmail(email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (s *userStore) findByID(id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

type officeStore struct {
	mu      sync.RWMutex
	offices map[int64]Office
}

func newOfficeStore() *officeStore {
	return &officeStore{offices: make(map[int64]Office)}
}

func (s *officeStore) save(o Office) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offices[o.ID] = o
}

func (s *officeStore) find(id int64) (Office, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o, ok := s.offices[id]; ok {
		return o, nil
	}
	return Office{}, ErrNotFound
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionRecord
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[uuid.UUID]*sessionRecord)}
}

func (s *sessionStore) save(rec *sessionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[rec.ID] = rec
}

func (s *sessionStore) findByID(id uuid.UUID) (*sessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.sessions[id]; ok {
		return rec, nil
	}
	return nil, ErrNotFound
}

func (s *sessionStore) findByRefreshToken(token string) (*sessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.sessions {
		if rec.RefreshToken == token {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

func (s *sessionStore) delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *sessionStore) setContext(id uuid.UUID, ctx models.OperatingContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	copied := ctx
	rec.Context = &copied
	return nil
}
