package lifecycle

import (
	"context"
	"net/http"

	"praxis/internal/auth/models"
	dErrors "praxis/pkg/domain-errors"
)

// ReloadOffices fetches the identity's current office memberships. This is the
// only way, short of a re-login, that the membership set changes; the committed
// operating context is deliberately left untouched even when it no longer
// appears in the fresh set (staleness is tolerated until next login).
func (s *Service) ReloadOffices(ctx context.Context) ([]models.OfficeMembership, error) {
	resp, err := s.getJSON(ctx, "/auth/available-escritorios")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized {
			discard(resp)
			return nil, dErrors.New(dErrors.CodeUnauthorized, "not authenticated")
		}
		return nil, unexpectedStatus(resp)
	}

	var offices []models.OfficePayload
	if err := decode(resp, &offices); err != nil {
		return nil, err
	}
	memberships := models.Memberships(offices)

	// Refresh whichever holds the membership set right now.
	s.mu.Lock()
	if s.pendingIdentity != nil {
		s.pendingMemberships = memberships
		s.mu.Unlock()
		return memberships, nil
	}
	s.mu.Unlock()

	if identity, ok := s.session.Identity(); ok {
		if committed, hasCtx := s.session.Context(); hasCtx {
			s.session.Commit(identity, memberships, committed)
		}
	}
	return memberships, nil
}
