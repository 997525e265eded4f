package lifecycle

import (
	"context"
	"net/http"

	"praxis/internal/auth/models"
	"praxis/internal/platform/tracer"
	dErrors "praxis/pkg/domain-errors"
)

// CommitContext submits the chosen office/profile pair to the backend and, on
// acceptance, commits the session and navigates to the area matching the mode.
// Both arguments nil selects administrative mode; the backend only accepts
// that from system-admin identities and the rejection surfaces here as a
// context_invalid error so the selection UI can re-prompt.
func (s *Service) CommitContext(ctx context.Context, officeID *int64, profile *string) error {
	ctx, span := s.tracer.Start(ctx, tracer.SpanCommitContext)
	err := s.commitContext(ctx, officeID, profile)
	span.End(err)
	return err
}

func (s *Service) commitContext(ctx context.Context, officeID *int64, profile *string) error {
	if (officeID == nil) != (profile == nil) {
		return dErrors.New(dErrors.CodeValidation, "office and profile must be chosen together")
	}

	identity, memberships, ok := s.currentIdentity()
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "no authenticated identity")
	}

	resp, err := s.postJSON(ctx, "/auth/set-context", models.SetContextRequest{
		OfficeID: officeID,
		Profile:  profile,
	})
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		discard(resp)
	case http.StatusForbidden, http.StatusBadRequest, http.StatusUnprocessableEntity:
		discard(resp)
		return dErrors.New(dErrors.CodeContextInvalid, "backend rejected the requested context")
	case http.StatusUnauthorized:
		discard(resp)
		return dErrors.New(dErrors.CodeUnauthorized, "not authenticated")
	default:
		return unexpectedStatus(resp)
	}

	var operating models.OperatingContext
	if officeID == nil {
		operating = models.AdministrativeContext()
	} else {
		operating = models.ScopedContext(*officeID, *profile)
	}

	s.session.Commit(identity, memberships, operating)
	s.clearPending()

	if s.metrics != nil {
		s.metrics.ContextCommits.WithLabelValues(operating.Mode()).Inc()
	}
	s.logger.InfoContext(ctx, "operating context committed",
		"mode", operating.Mode(),
		"user_id", identity.ID.String(),
	)

	if operating.Administrative {
		s.nav.ToAdminArea()
	} else {
		s.nav.ToDashboard()
	}
	return nil
}
