package lifecycle

import (
	"context"
	"net/http"

	"praxis/internal/auth/models"
	dErrors "praxis/pkg/domain-errors"
)

// loginPrompted walks the service through a login that ends in a prompt so
// CommitContext has a pending identity to work with.
func (s *ServiceSuite) loginPrompted(admin bool, offices ...models.OfficePayload) {
	payload := s.loginResponse(admin, offices...)
	s.expectPost("/auth/login", jsonResponse(http.StatusOK, payload))
	_, err := s.service.Login(context.Background(), "ana@example.com", "secret")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestCommitScopedContext() {
	s.loginPrompted(false, officePayload(1, "Financeiro"), officePayload(2, "Advogado"))

	s.expectPost("/auth/set-context", jsonResponse(http.StatusOK, models.SetContextResponse{}))
	s.mockNav.EXPECT().ToDashboard()

	officeID := int64(2)
	profile := "Advogado"
	s.Require().NoError(s.service.CommitContext(context.Background(), &officeID, &profile))

	ctx, ok := s.state.Context()
	s.Require().True(ok)
	s.False(ctx.Administrative)
	s.Equal(int64(2), ctx.OfficeID)
	s.Equal("Advogado", ctx.Profile)
	s.Len(s.state.Memberships(), 2)
}

func (s *ServiceSuite) TestCommitAdministrativeContext() {
	s.loginPrompted(true, officePayload(1, "Financeiro"))

	s.expectPost("/auth/set-context", jsonResponse(http.StatusOK, models.SetContextResponse{Administrative: true}))
	s.mockNav.EXPECT().ToAdminArea()

	s.Require().NoError(s.service.CommitContext(context.Background(), nil, nil))

	s.True(s.state.IsAdminMode())
	s.True(s.state.IsSystemAdmin())
}

func (s *ServiceSuite) TestCommitAdministrativeRejectedForNonAdmin() {
	s.loginPrompted(false, officePayload(1, "Financeiro"), officePayload(2, "Advogado"))

	s.expectPost("/auth/set-context", emptyResponse(http.StatusForbidden))

	err := s.service.CommitContext(context.Background(), nil, nil)

	s.True(dErrors.HasCode(err, dErrors.CodeContextInvalid))
	s.False(s.state.Active(), "rejected commit must not touch the session")
}

func (s *ServiceSuite) TestCommitRejectedProfileNotHeld() {
	s.loginPrompted(false, officePayload(1, "Financeiro"), officePayload(2, "Advogado"))

	s.expectPost("/auth/set-context", emptyResponse(http.StatusForbidden))

	officeID := int64(1)
	profile := "Advogado"
	err := s.service.CommitContext(context.Background(), &officeID, &profile)

	s.True(dErrors.HasCode(err, dErrors.CodeContextInvalid))
}

func (s *ServiceSuite) TestCommitHalfNilArguments() {
	s.loginPrompted(false, officePayload(1, "Financeiro"), officePayload(2, "Advogado"))

	officeID := int64(1)
	s.True(dErrors.HasCode(
		s.service.CommitContext(context.Background(), &officeID, nil),
		dErrors.CodeValidation,
	))

	profile := "Financeiro"
	s.True(dErrors.HasCode(
		s.service.CommitContext(context.Background(), nil, &profile),
		dErrors.CodeValidation,
	))
}

func (s *ServiceSuite) TestCommitWithoutIdentity() {
	err := s.service.CommitContext(context.Background(), nil, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestContextSwitchAfterCommit() {
	// A committed session can switch context without a fresh login.
	s.loginPrompted(false, officePayload(1, "Financeiro"), officePayload(2, "Advogado"))

	s.expectPost("/auth/set-context", jsonResponse(http.StatusOK, models.SetContextResponse{}))
	s.mockNav.EXPECT().ToDashboard()
	officeID := int64(1)
	profile := "Financeiro"
	s.Require().NoError(s.service.CommitContext(context.Background(), &officeID, &profile))

	s.expectPost("/auth/set-context", jsonResponse(http.StatusOK, models.SetContextResponse{}))
	s.mockNav.EXPECT().ToDashboard()
	officeID = 2
	profile = "Advogado"
	s.Require().NoError(s.service.CommitContext(context.Background(), &officeID, &profile))

	ctx, _ := s.state.Context()
	s.Equal(int64(2), ctx.OfficeID)
}
