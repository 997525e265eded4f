package lifecycle

import (
	"context"
	"net/http"
	"strings"

	"praxis/internal/auth/models"
	"praxis/internal/platform/tracer"
	"praxis/internal/resolver"
	dErrors "praxis/pkg/domain-errors"
)

// Login authenticates the user and resolves the operating context. When the
// membership set resolves uniquely, the context is committed server-side and
// locally and the navigator moves to the dashboard; the returned decision then
// carries OutcomeAutoResolved. Otherwise the decision describes the prompt the
// caller must show, and the flow continues through CommitContext.
func (s *Service) Login(ctx context.Context, email, password string) (resolver.Decision, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanLogin)
	decision, err := s.login(ctx, email, password)
	span.End(err)
	return decision, err
}

func (s *Service) login(ctx context.Context, email, password string) (resolver.Decision, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return resolver.Decision{}, dErrors.New(dErrors.CodeValidation, "email and password are required")
	}

	resp, err := s.postJSON(ctx, "/auth/login", models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return resolver.Decision{}, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		discard(resp)
		s.countLoginFailure()
		return resolver.Decision{}, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		discard(resp)
		s.countLoginFailure()
		return resolver.Decision{}, dErrors.New(dErrors.CodeValidation, "malformed login request")
	default:
		s.countLoginFailure()
		return resolver.Decision{}, unexpectedStatus(resp)
	}

	var payload models.LoginResponse
	if err := decode(resp, &payload); err != nil {
		return resolver.Decision{}, err
	}

	pair := models.CredentialPair{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		TokenType:    payload.TokenType,
	}
	if !pair.Valid() {
		return resolver.Decision{}, dErrors.New(dErrors.CodeInternal, "login response missing credentials")
	}
	if err := s.creds.Put(pair); err != nil {
		return resolver.Decision{}, err
	}

	identity, err := payload.User.Identity(payload.IsSystemAdmin)
	if err != nil {
		return resolver.Decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "login response carried malformed user id")
	}
	memberships := models.Memberships(payload.AvailableOffices)

	if s.metrics != nil {
		s.metrics.LoginsTotal.Inc()
	}
	s.logger.InfoContext(ctx, "login succeeded",
		"user_id", identity.ID.String(),
		"offices", len(memberships),
		"system_admin", identity.SystemAdmin,
	)

	return s.afterAuthentication(ctx, identity, memberships)
}

// afterAuthentication parks the identity, resolves the context, and commits
// directly when no prompt is needed. Shared by Login and Rehydrate.
func (s *Service) afterAuthentication(ctx context.Context, identity models.Identity, memberships []models.OfficeMembership) (resolver.Decision, error) {
	s.setPending(identity, memberships)

	decision := resolver.Resolve(memberships, identity.SystemAdmin)
	if decision.Outcome == resolver.OutcomeRequiresPrompt {
		return decision, nil
	}

	officeID := decision.Context.OfficeID
	profile := decision.Context.Profile
	if err := s.CommitContext(ctx, &officeID, &profile); err != nil {
		return resolver.Decision{}, err
	}
	return decision, nil
}

func (s *Service) countLoginFailure() {
	if s.metrics != nil {
		s.metrics.LoginFailures.Inc()
	}
}
