package session

import (
	"sync"

	"praxis/internal/auth/models"
	"praxis/internal/credentials"
)

// State is the in-memory session singleton: the authenticated identity, its
// office memberships, and the committed operating context. It is not the
// durable store; the credential pair lives in credentials.Store, which Clear
// also wipes so teardown can never leave a usable refresh credential behind.
//
// All mutation goes through Commit and Clear. Accessors return copies so
// callers cannot alias internal state.
type State struct {
	mu          sync.RWMutex
	creds       credentials.Store
	identity    *models.Identity
	memberships []models.OfficeMembership
	context     *models.OperatingContext
}

// New creates an empty session bound to the given credential store.
func New(creds credentials.Store) *State {
	return &State{creds: creds}
}

// Commit installs the identity, memberships, and resolved operating context.
// Committing twice with the same arguments is observably identical to
// committing once. The context is taken at face value; consistency with the
// memberships was validated by the backend at commit time, and staleness after
// server-side membership changes is tolerated until the next login.
func (s *State) Commit(identity models.Identity, memberships []models.OfficeMembership, context models.OperatingContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := identity
	s.identity = &id
	s.memberships = copyMemberships(memberships)
	ctx := context
	s.context = &ctx
}

// Clear wipes the session and the stored credential pair.
func (s *State) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	s.memberships = nil
	s.context = nil
	return s.creds.Clear()
}

// Active reports whether a context has been committed.
func (s *State) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.context != nil
}

// Identity returns the committed identity, if any.
func (s *State) Identity() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

// Memberships returns a copy of the committed membership set.
func (s *State) Memberships() []models.OfficeMembership {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMemberships(s.memberships)
}

// IsSystemAdmin reports whether the committed identity holds the system-wide
// administrative capability.
func (s *State) IsSystemAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.identity.SystemAdmin
}

// IsAdminMode reports whether the committed context is administrative.
func (s *State) IsAdminMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.context != nil && s.context.Administrative
}

// Context returns the committed operating context, if any.
func (s *State) Context() (models.OperatingContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.context == nil {
		return models.OperatingContext{}, false
	}
	return *s.context, true
}

func copyMemberships(in []models.OfficeMembership) []models.OfficeMembership {
	if in == nil {
		return nil
	}
	out := make([]models.OfficeMembership, len(in))
	for i, m := range in {
		profiles := make([]string, len(m.Profiles))
		copy(profiles, m.Profiles)
		m.Profiles = profiles
		out[i] = m
	}
	return out
}
