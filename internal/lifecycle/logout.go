package lifecycle

import (
	"context"

	"praxis/internal/platform/tracer"
)

// Logout tears the session down. The backend call is best-effort: local state
// and credentials are wiped and the navigator returns to login even when the
// network is gone, so a failed logout can never leave a usable session behind.
func (s *Service) Logout(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, tracer.SpanLogout)
	defer span.End(nil)

	if resp, err := s.postJSON(ctx, "/auth/logout", nil); err != nil {
		s.logger.WarnContext(ctx, "logout call failed, clearing session anyway", "error", err)
	} else {
		discard(resp)
	}

	s.clearPending()
	if err := s.session.Clear(); err != nil {
		s.logger.ErrorContext(ctx, "could not clear credentials on logout", "error", err)
	}
	s.nav.ToLogin()
	return nil
}
