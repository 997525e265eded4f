package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"praxis/internal/auth/models"
	"praxis/pkg/secrets"
)

type contextKeySession struct{}

func writeJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, code, desc string) {
	writeJSON(w, status, map[string]string{
		"error":             code,
		"error_description": desc,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "malformed body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "email and senha are required")
		return
	}

	user, err := s.users.findByEmail(req.Email)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "unknown email or wrong password")
		return
	}
	if err := secrets.Verify(req.Password, user.PasswordHash); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "unknown email or wrong password")
		return
	}

	refreshToken, err := secrets.Generate()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "could not issue refresh token")
		return
	}
	rec := &sessionRecord{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		Device:       deviceName(r.UserAgent()),
		CreatedAt:    time.Now(),
	}
	s.sessions.save(rec)

	accessToken, err := s.mintAccessToken(user.ID, rec.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "could not issue access token")
		return
	}

	offices := s.officesFor(user)
	requiresSelection := user.SystemAdmin || len(offices) != 1 || len(offices[0].Profiles) != 1

	s.logger.Info("login",
		"user_id", user.ID.String(),
		"device", rec.Device,
		"system_admin", user.SystemAdmin,
	)

	writeJSON(w, http.StatusOK, models.LoginResponse{
		User:                    models.UserPayload{ID: user.ID.String(), Name: user.Name, Email: user.Email},
		AccessToken:             accessToken,
		RefreshToken:            refreshToken,
		TokenType:               models.TokenTypeBearer,
		RequiresOfficeSelection: requiresSelection,
		IsSystemAdmin:           user.SystemAdmin,
		AvailableOffices:        offices,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "refresh_token is required")
		return
	}

	rec, err := s.sessions.findByRefreshToken(req.RefreshToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_grant", "unknown refresh token")
		return
	}

	// The refresh token is not rotated; only a fresh access token is issued.
	accessToken, err := s.mintAccessToken(rec.UserID, rec.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "could not issue access token")
		return
	}

	writeJSON(w, http.StatusOK, models.RefreshResponse{
		AccessToken: accessToken,
		TokenType:   models.TokenTypeBearer,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Best-effort: a valid bearer revokes the session, anything else is still 204.
	if raw, ok := bearerToken(r); ok {
		if _, sessionID, err := s.parseAccessToken(raw); err == nil {
			s.sessions.delete(sessionID)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireAuth validates the bearer access token and loads the session record
// into the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "bearer token required")
			return
		}
		_, sessionID, err := s.parseAccessToken(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}
		rec, err := s.sessions.findByID(sessionID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "session revoked")
			return
		}
		ctx := context.WithValue(r.Context(), contextKeySession{}, rec)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

func sessionFrom(ctx context.Context) *sessionRecord {
	rec, _ := ctx.Value(contextKeySession{}).(*sessionRecord)
	return rec
}

func (s *Server) handleSetContext(w http.ResponseWriter, r *http.Request) {
	rec := sessionFrom(r.Context())
	user, err := s.users.findByID(rec.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "user no longer exists")
		return
	}

	var req models.SetContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "malformed body")
		return
	}
	if (req.OfficeID == nil) != (req.Profile == nil) {
		writeError(w, http.StatusUnprocessableEntity, "invalid_request", "escritorio_id and perfil must be sent together")
		return
	}

	var operating models.OperatingContext
	if req.OfficeID == nil {
		if !user.SystemAdmin {
			writeError(w, http.StatusForbidden, "context_invalid", "administrative mode requires system admin")
			return
		}
		operating = models.AdministrativeContext()
	} else {
		if _, err := s.offices.find(*req.OfficeID); err != nil {
			writeError(w, http.StatusForbidden, "context_invalid", "unknown escritorio")
			return
		}
		if user.SystemAdmin {
			// A system admin may simulate any profile from the global catalog.
			if !models.IsGlobalProfile(*req.Profile) {
				writeError(w, http.StatusForbidden, "context_invalid", "perfil not in global catalog")
				return
			}
		} else {
			held, ok := user.Offices[*req.OfficeID]
			if !ok || !contains(held, *req.Profile) {
				writeError(w, http.StatusForbidden, "context_invalid", "identity does not hold this escritorio/perfil")
				return
			}
		}
		operating = models.ScopedContext(*req.OfficeID, *req.Profile)
	}

	if err := s.sessions.setContext(rec.ID, operating); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "session revoked")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", "could not store context")
		return
	}

	writeJSON(w, http.StatusOK, models.SetContextResponse{
		Administrative: operating.Administrative,
		OfficeID:       req.OfficeID,
		Profile:        req.Profile,
	})
}

func (s *Server) handleAvailableOffices(w http.ResponseWriter, r *http.Request) {
	rec := sessionFrom(r.Context())
	user, err := s.users.findByID(rec.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "user no longer exists")
		return
	}
	writeJSON(w, http.StatusOK, s.officesFor(user))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	rec := sessionFrom(r.Context())
	user, err := s.users.findByID(rec.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "user no longer exists")
		return
	}
	writeJSON(w, http.StatusOK, models.MeResponse{
		User:             models.UserPayload{ID: user.ID.String(), Name: user.Name, Email: user.Email},
		IsSystemAdmin:    user.SystemAdmin,
		AvailableOffices: s.officesFor(user),
	})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"pong": true})
}

// officesFor builds the wire payloads for the offices the user belongs to,
// ordered by office id for stable responses.
func (s *Server) officesFor(user *User) []models.OfficePayload {
	ids := make([]int64, 0, len(user.Offices))
	for id := range user.Offices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	payloads := make([]models.OfficePayload, 0, len(ids))
	for _, id := range ids {
		office, err := s.offices.find(id)
		if err != nil {
			continue
		}
		profiles := make([]string, len(user.Offices[id]))
		copy(profiles, user.Offices[id])
		payloads = append(payloads, models.OfficePayload{
			ID:        office.ID,
			TradeName: office.TradeName,
			LegalName: office.LegalName,
			Color:     office.Color,
			Profiles:  profiles,
		})
	}
	return payloads
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
