// Package lifecycle orchestrates login, context resolution, and logout. It
// owns the login → resolve → commit → navigate transition; the pure decision
// logic lives in the resolver and all transport concerns in the gateway.
package lifecycle

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Doer,Navigator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"praxis/internal/auth/models"
	"praxis/internal/credentials"
	"praxis/internal/platform/metrics"
	"praxis/internal/platform/tracer"
	"praxis/internal/session"
	dErrors "praxis/pkg/domain-errors"
)

// Doer sends a request through the gateway choke point.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Navigator is the UI-facing redirect port. The lifecycle never renders; it
// only tells the shell where to go next.
type Navigator interface {
	ToLogin()
	ToDashboard()
	ToAdminArea()
}

// Service drives the session through its states. All collaborators are
// injected so tests can substitute fakes; there are no ambient globals.
type Service struct {
	baseURL string
	gw      Doer
	creds   credentials.Store
	session *session.State
	nav     Navigator
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer

	// Identity and memberships arrive at login but are only committed to the
	// session once a context is resolved; until then they are parked here.
	mu                 sync.Mutex
	pendingIdentity    *models.Identity
	pendingMemberships []models.OfficeMembership
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the Prometheus metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTracer sets the tracer for lifecycle spans.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// New creates a lifecycle service against baseURL. gw must already be wired to
// the same credential store so renewed credentials are visible here.
func New(baseURL string, gw Doer, creds credentials.Store, state *session.State, nav Navigator, opts ...Option) *Service {
	s := &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		gw:      gw,
		creds:   creds,
		session: state,
		nav:     nav,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = tracer.NewNoop()
	}
	return s
}

func (s *Service) setPending(identity models.Identity, memberships []models.OfficeMembership) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := identity
	s.pendingIdentity = &id
	s.pendingMemberships = memberships
}

// AvailableMemberships returns the memberships a selection prompt should
// offer: the pending set while a login is mid-resolution, the committed set
// afterwards. The slice is a copy.
func (s *Service) AvailableMemberships() []models.OfficeMembership {
	s.mu.Lock()
	if s.pendingIdentity != nil {
		out := make([]models.OfficeMembership, len(s.pendingMemberships))
		copy(out, s.pendingMemberships)
		s.mu.Unlock()
		return out
	}
	s.mu.Unlock()
	return s.session.Memberships()
}

func (s *Service) clearPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingIdentity = nil
	s.pendingMemberships = nil
}

// currentIdentity returns the pending identity if a login is mid-resolution,
// otherwise the committed one.
func (s *Service) currentIdentity() (models.Identity, []models.OfficeMembership, bool) {
	s.mu.Lock()
	if s.pendingIdentity != nil {
		id := *s.pendingIdentity
		ms := s.pendingMemberships
		s.mu.Unlock()
		return id, ms, true
	}
	s.mu.Unlock()

	id, ok := s.session.Identity()
	if !ok {
		return models.Identity{}, nil, false
	}
	return id, s.session.Memberships(), true
}

func (s *Service) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not encode request")
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return s.gw.Do(req)
}

func (s *Service) getJSON(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not build request")
	}
	return s.gw.Do(req)
}

func decode(resp *http.Response, out any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not decode response")
	}
	return nil
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func unexpectedStatus(resp *http.Response) error {
	discard(resp)
	return dErrors.New(dErrors.CodeInternal, fmt.Sprintf("unexpected status %d", resp.StatusCode))
}
