package lifecycle

import (
	"context"
	"net/http"

	"praxis/internal/auth/models"
	"praxis/internal/resolver"
	dErrors "praxis/pkg/domain-errors"
)

func (s *ServiceSuite) storedPair() {
	s.Require().NoError(s.creds.Put(models.CredentialPair{
		AccessToken:  "persisted-access",
		RefreshToken: "persisted-refresh",
		TokenType:    models.TokenTypeBearer,
	}))
}

func (s *ServiceSuite) TestRehydrateWithoutCredentials() {
	_, err := s.service.Rehydrate(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestRehydrateAutoResolves() {
	s.storedPair()
	me := models.MeResponse{
		User:             s.userPayload(),
		AvailableOffices: []models.OfficePayload{officePayload(7, "Financeiro")},
	}
	s.expectGet("/auth/me", jsonResponse(http.StatusOK, me))
	s.expectPost("/auth/set-context", jsonResponse(http.StatusOK, models.SetContextResponse{}))
	s.mockNav.EXPECT().ToDashboard()

	decision, err := s.service.Rehydrate(context.Background())
	s.Require().NoError(err)

	s.Equal(resolver.OutcomeAutoResolved, decision.Outcome)
	s.True(s.state.Active())
}

func (s *ServiceSuite) TestRehydratePromptsForAdmin() {
	s.storedPair()
	me := models.MeResponse{
		User:             s.userPayload(),
		IsSystemAdmin:    true,
		AvailableOffices: []models.OfficePayload{officePayload(7, "Financeiro")},
	}
	s.expectGet("/auth/me", jsonResponse(http.StatusOK, me))

	decision, err := s.service.Rehydrate(context.Background())
	s.Require().NoError(err)

	s.Equal(resolver.OutcomeRequiresPrompt, decision.Outcome)
	s.False(s.state.Active())
}

func (s *ServiceSuite) TestRehydrateRejectedCredentials() {
	s.storedPair()
	s.expectGet("/auth/me", emptyResponse(http.StatusUnauthorized))

	_, err := s.service.Rehydrate(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestReloadOfficesUpdatesCommittedSession() {
	s.committedSession()

	fresh := []models.OfficePayload{
		officePayload(7, "Financeiro"),
		officePayload(8, "Advogado"),
	}
	s.expectGet("/auth/available-escritorios", jsonResponse(http.StatusOK, fresh))

	memberships, err := s.service.ReloadOffices(context.Background())
	s.Require().NoError(err)

	s.Len(memberships, 2)
	s.Len(s.state.Memberships(), 2)

	// The committed context survives a reload even if memberships changed.
	ctx, ok := s.state.Context()
	s.Require().True(ok)
	s.Equal(int64(7), ctx.OfficeID)
}

func (s *ServiceSuite) TestReloadOfficesRequiresAuth() {
	s.expectGet("/auth/available-escritorios", emptyResponse(http.StatusUnauthorized))

	_, err := s.service.ReloadOffices(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
