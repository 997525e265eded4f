package credentials

import (
	"sync"

	"praxis/internal/auth/models"
)

// MemoryStore keeps the credential pair in process memory only. It is the
// store of choice for tests and for integrations that manage durability
// themselves. It intentionally favors clarity over performance.
type MemoryStore struct {
	mu   sync.RWMutex
	pair *models.CredentialPair
}

// NewMemoryStore creates an empty in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Put(pair models.CredentialPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := pair
	s.pair = &copied
	return nil
}

func (s *MemoryStore) Get() (models.CredentialPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pair == nil {
		return models.CredentialPair{}, ErrNoCredentials
	}
	return *s.pair, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = nil
	return nil
}

var _ Store = (*MemoryStore)(nil)
