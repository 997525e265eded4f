// Package mockapi is an in-repo fake of the office-management backend's auth
// surface. It implements the same wire contract the production service speaks
// so the client core can be exercised end to end without network access:
// bcrypt-verified logins, short-lived JWT access tokens, opaque refresh
// tokens, context commits, and a bearer-protected probe endpoint.
package mockapi

import (
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"praxis/internal/platform/config"
	"praxis/pkg/secrets"
)

// Server hosts the fake backend's stores and router.
type Server struct {
	cfg      config.MockAPI
	users    *userStore
	offices  *officeStore
	sessions *sessionStore
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates an empty fake backend. Seed users and offices before serving.
func New(cfg config.MockAPI, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		users:    newUserStore(),
		offices:  newOfficeStore(),
		sessions: newSessionStore(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.cfg.AccessTokenTTL <= 0 {
		s.cfg.AccessTokenTTL = 15 * time.Minute
	}
	return s
}

// Router wires all endpoints.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/refresh", s.handleRefresh)
	r.Post("/auth/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/auth/set-context", s.handleSetContext)
		r.Get("/auth/available-escritorios", s.handleAvailableOffices)
		r.Get("/auth/me", s.handleMe)
		r.Get("/api/ping", s.handlePing)
	})

	return r
}

// SeedOffice registers an office.
func (s *Server) SeedOffice(o Office) {
	s.offices.save(o)
}

// SeedUser registers a user with a bcrypt-hashed password. offices maps
// office id to the profiles held there.
func (s *Server) SeedUser(name, email, password string, systemAdmin bool, offices map[int64][]string) error {
	hash, err := secrets.Hash(password)
	if err != nil {
		return err
	}
	s.users.save(&User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		SystemAdmin:  systemAdmin,
		Offices:      offices,
	})
	return nil
}

// SeedDemoData loads the dataset used by cmd/mockapi and the examples in the
// README: one single-office bookkeeper, one multi-office lawyer, and one
// system admin.
func SeedDemoData(s *Server) error {
	s.SeedOffice(Office{ID: 7, TradeName: "Souza Advogados", LegalName: "Souza Sociedade de Advogados", Color: "#1f6feb"})
	s.SeedOffice(Office{ID: 8, TradeName: "Lima & Prado", LegalName: "Lima e Prado Advocacia", Color: "#d4a72c"})

	if err := s.SeedUser("Ana Souza", "ana@example.com", "segredo123", false,
		map[int64][]string{7: {"Financeiro"}}); err != nil {
		return err
	}
	if err := s.SeedUser("Bruno Lima", "bruno@example.com", "segredo123", false,
		map[int64][]string{7: {"Advogado", "Financeiro"}, 8: {"Advogado"}}); err != nil {
		return err
	}
	return s.SeedUser("Rita Admin", "root@example.com", "segredo123", true, nil)
}

// deviceName turns a User-Agent header into a short display name recorded on
// the session, e.g. "Chrome on Linux".
func deviceName(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}
	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}
