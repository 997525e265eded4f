package lifecycle

import (
	"context"
	"errors"
	"net/http"

	"praxis/internal/auth/models"
	"praxis/internal/credentials"
	"praxis/internal/resolver"
	dErrors "praxis/pkg/domain-errors"
)

func (s *ServiceSuite) TestLoginValidation() {
	s.Run("empty email", func() {
		_, err := s.service.Login(context.Background(), "", "secret")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("empty password", func() {
		_, err := s.service.Login(context.Background(), "ana@example.com", "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestLoginInvalidCredentials() {
	s.expectPost("/auth/login", emptyResponse(http.StatusUnauthorized))

	_, err := s.service.Login(context.Background(), "ana@example.com", "wrong")

	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	_, credErr := s.creds.Get()
	s.True(errors.Is(credErr, credentials.ErrNoCredentials), "failed login must not store credentials")
}

func (s *ServiceSuite) TestLoginMalformedInput() {
	s.expectPost("/auth/login", emptyResponse(http.StatusUnprocessableEntity))

	_, err := s.service.Login(context.Background(), "not-an-email", "x")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestLoginSingleOfficeSingleProfileAutoResolves() {
	payload := s.loginResponse(false, officePayload(7, "Financeiro"))
	s.expectPost("/auth/login", jsonResponse(http.StatusOK, payload))
	s.expectPost("/auth/set-context", jsonResponse(http.StatusOK, models.SetContextResponse{}))
	s.mockNav.EXPECT().ToDashboard()

	decision, err := s.service.Login(context.Background(), "ana@example.com", "secret")
	s.Require().NoError(err)

	s.Equal(resolver.OutcomeAutoResolved, decision.Outcome)
	s.True(s.state.Active())
	ctx, ok := s.state.Context()
	s.Require().True(ok)
	s.Equal(int64(7), ctx.OfficeID)
	s.Equal("Financeiro", ctx.Profile)

	pair, err := s.creds.Get()
	s.Require().NoError(err)
	s.Equal("access-1", pair.AccessToken)
	s.Equal("refresh-1", pair.RefreshToken)
}

func (s *ServiceSuite) TestLoginSystemAdminAlwaysPrompts() {
	// Even a single auto-resolvable office must not bypass the mode choice.
	payload := s.loginResponse(true, officePayload(7, "Financeiro"))
	s.expectPost("/auth/login", jsonResponse(http.StatusOK, payload))

	decision, err := s.service.Login(context.Background(), "root@example.com", "secret")
	s.Require().NoError(err)

	s.Equal(resolver.OutcomeRequiresPrompt, decision.Outcome)
	s.False(s.state.Active(), "no context may be committed before the admin chooses")
}

func (s *ServiceSuite) TestLoginMultipleOfficesPrompts() {
	payload := s.loginResponse(false,
		officePayload(1, "Financeiro"),
		officePayload(2, "Advogado", "Financeiro"),
	)
	s.expectPost("/auth/login", jsonResponse(http.StatusOK, payload))

	decision, err := s.service.Login(context.Background(), "ana@example.com", "secret")
	s.Require().NoError(err)

	s.Equal(resolver.OutcomeRequiresPrompt, decision.Outcome)
	s.Nil(decision.PreselectedOfficeID)
	s.False(s.state.Active())
}

func (s *ServiceSuite) TestLoginSingleOfficeMultipleProfilesPreseeds() {
	payload := s.loginResponse(false, officePayload(9, "Advogado", "Financeiro"))
	s.expectPost("/auth/login", jsonResponse(http.StatusOK, payload))

	decision, err := s.service.Login(context.Background(), "ana@example.com", "secret")
	s.Require().NoError(err)

	s.Equal(resolver.OutcomeRequiresPrompt, decision.Outcome)
	s.Require().NotNil(decision.PreselectedOfficeID)
	s.Equal(int64(9), *decision.PreselectedOfficeID)
	s.Equal("Advogado", decision.SuggestedProfile)
}

func (s *ServiceSuite) TestLoginResponseMissingCredentials() {
	payload := s.loginResponse(false, officePayload(7, "Financeiro"))
	payload.RefreshToken = ""
	s.expectPost("/auth/login", jsonResponse(http.StatusOK, payload))

	_, err := s.service.Login(context.Background(), "ana@example.com", "secret")
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
