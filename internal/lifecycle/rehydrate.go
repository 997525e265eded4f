package lifecycle

import (
	"context"
	"errors"
	"net/http"

	"praxis/internal/credentials"
	"praxis/internal/platform/tracer"
	"praxis/internal/resolver"
	dErrors "praxis/pkg/domain-errors"

	"praxis/internal/auth/models"
)

// Rehydrate rebuilds the in-memory session after a process restart from the
// still-persisted credential pair, using the lightweight who-am-I call instead
// of replaying login. The gateway's renewal path covers an expired access
// credential transparently. Callers fall back to the login flow on error.
func (s *Service) Rehydrate(ctx context.Context) (resolver.Decision, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRehydrate)
	decision, err := s.rehydrate(ctx)
	span.End(err)
	return decision, err
}

func (s *Service) rehydrate(ctx context.Context) (resolver.Decision, error) {
	if _, err := s.creds.Get(); err != nil {
		if errors.Is(err, credentials.ErrNoCredentials) {
			return resolver.Decision{}, dErrors.New(dErrors.CodeUnauthorized, "no persisted credentials")
		}
		return resolver.Decision{}, err
	}

	resp, err := s.getJSON(ctx, "/auth/me")
	if err != nil {
		return resolver.Decision{}, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		discard(resp)
		return resolver.Decision{}, dErrors.New(dErrors.CodeUnauthorized, "persisted credentials no longer valid")
	default:
		return resolver.Decision{}, unexpectedStatus(resp)
	}

	var payload models.MeResponse
	if err := decode(resp, &payload); err != nil {
		return resolver.Decision{}, err
	}

	identity, err := payload.User.Identity(payload.IsSystemAdmin)
	if err != nil {
		return resolver.Decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "who-am-i response carried malformed user id")
	}

	s.logger.InfoContext(ctx, "session rehydrated", "user_id", identity.ID.String())
	return s.afterAuthentication(ctx, identity, models.Memberships(payload.AvailableOffices))
}
