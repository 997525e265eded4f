package lifecycle

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/mock/gomock"

	"praxis/internal/auth/models"
	"praxis/internal/credentials"
	dErrors "praxis/pkg/domain-errors"
)

func (s *ServiceSuite) committedSession() {
	payload := s.loginResponse(false, officePayload(7, "Financeiro"))
	s.expectPost("/auth/login", jsonResponse(http.StatusOK, payload))
	s.expectPost("/auth/set-context", jsonResponse(http.StatusOK, models.SetContextResponse{}))
	s.mockNav.EXPECT().ToDashboard()
	_, err := s.service.Login(context.Background(), "ana@example.com", "secret")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestLogoutClearsEverything() {
	s.committedSession()

	s.expectPost("/auth/logout", emptyResponse(http.StatusNoContent))
	s.mockNav.EXPECT().ToLogin()

	s.Require().NoError(s.service.Logout(context.Background()))

	s.False(s.state.Active())
	_, err := s.creds.Get()
	s.True(errors.Is(err, credentials.ErrNoCredentials))
}

func (s *ServiceSuite) TestLogoutClearsEvenWhenBackendUnreachable() {
	s.committedSession()

	s.mockGW.EXPECT().Do(gomock.Any()).Return(nil, dErrors.New(dErrors.CodeNetwork, "connection refused"))
	s.mockNav.EXPECT().ToLogin()

	s.Require().NoError(s.service.Logout(context.Background()))

	s.False(s.state.Active())
	_, err := s.creds.Get()
	s.True(errors.Is(err, credentials.ErrNoCredentials))
}
