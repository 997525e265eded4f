package mockapi

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "praxis/pkg/domain-errors"
)

// accessClaims are the JWT claims carried by access tokens: the user id in
// sub, the session id in sid.
type accessClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (s *Server) mintAccessToken(userID, sessionID uuid.UUID) (string, error) {
	now := time.Now()
	claims := accessClaims{
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SigningKey))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not sign access token")
	}
	return signed, nil
}

// parseAccessToken validates signature and expiry and returns the user and
// session ids.
func (s *Server) parseAccessToken(raw string) (userID, sessionID uuid.UUID, err error) {
	var claims accessClaims
	_, err = jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing method")
		}
		return []byte(s.cfg.SigningKey), nil
	})
	if err != nil {
		return uuid.Nil, uuid.Nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid access token")
	}

	userID, err = uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, uuid.Nil, dErrors.New(dErrors.CodeUnauthorized, "malformed subject claim")
	}
	sessionID, err = uuid.Parse(claims.SessionID)
	if err != nil {
		return uuid.Nil, uuid.Nil, dErrors.New(dErrors.CodeUnauthorized, "malformed session claim")
	}
	return userID, sessionID, nil
}
