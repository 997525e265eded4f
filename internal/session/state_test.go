package session

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"praxis/internal/auth/models"
	"praxis/internal/credentials"
)

// StateSuite tests the session singleton.
//
// Justification: every protected view and every gateway call reads this state;
// the invariants "clear also wipes credentials" and "commit is idempotent"
// guard the two hard security properties of the core.
type StateSuite struct {
	suite.Suite
	creds *credentials.MemoryStore
	state *State
}

func (s *StateSuite) SetupTest() {
	s.creds = credentials.NewMemoryStore()
	s.state = New(s.creds)
}

func TestStateSuite(t *testing.T) {
	suite.Run(t, new(StateSuite))
}

func (s *StateSuite) identity(admin bool) models.Identity {
	return models.Identity{
		ID:          uuid.New(),
		Name:        "Ana Souza",
		Email:       "ana@example.com",
		SystemAdmin: admin,
	}
}

func (s *StateSuite) memberships() []models.OfficeMembership {
	return []models.OfficeMembership{
		{OfficeID: 7, TradeName: "Souza Advogados", Profiles: []string{"Financeiro"}},
	}
}

func (s *StateSuite) TestEmptyState() {
	s.False(s.state.Active())
	s.False(s.state.IsSystemAdmin())
	s.False(s.state.IsAdminMode())

	_, ok := s.state.Identity()
	s.False(ok)
	_, ok = s.state.Context()
	s.False(ok)
	s.Empty(s.state.Memberships())
}

func (s *StateSuite) TestCommitAndRead() {
	id := s.identity(false)
	ms := s.memberships()
	ctx := models.ScopedContext(7, "Financeiro")

	s.state.Commit(id, ms, ctx)

	s.True(s.state.Active())
	gotID, ok := s.state.Identity()
	s.Require().True(ok)
	s.Equal(id, gotID)

	gotCtx, ok := s.state.Context()
	s.Require().True(ok)
	s.Equal(ctx, gotCtx)
	s.False(s.state.IsAdminMode())
	s.Equal(ms, s.state.Memberships())
}

func (s *StateSuite) TestCommitIsIdempotent() {
	id := s.identity(true)
	ms := s.memberships()
	ctx := models.AdministrativeContext()

	s.state.Commit(id, ms, ctx)
	s.state.Commit(id, ms, ctx)

	gotID, ok := s.state.Identity()
	s.Require().True(ok)
	s.Equal(id, gotID)
	s.Equal(ms, s.state.Memberships())
	s.True(s.state.IsAdminMode())
	s.True(s.state.IsSystemAdmin())
}

func (s *StateSuite) TestClearWipesCredentialsToo() {
	s.Require().NoError(s.creds.Put(models.CredentialPair{
		AccessToken: "a", RefreshToken: "r", TokenType: models.TokenTypeBearer,
	}))
	s.state.Commit(s.identity(false), s.memberships(), models.ScopedContext(7, "Financeiro"))

	s.Require().NoError(s.state.Clear())

	s.False(s.state.Active())
	_, err := s.creds.Get()
	s.True(errors.Is(err, credentials.ErrNoCredentials))
}

func (s *StateSuite) TestAccessorsReturnCopies() {
	id := s.identity(false)
	ms := s.memberships()
	s.state.Commit(id, ms, models.ScopedContext(7, "Financeiro"))

	got := s.state.Memberships()
	got[0].Profiles[0] = "mutated"
	got[0].TradeName = "mutated"

	fresh := s.state.Memberships()
	s.Equal("Financeiro", fresh[0].Profiles[0])
	s.Equal("Souza Advogados", fresh[0].TradeName)
}
