package credentials

import (
	"praxis/internal/auth/models"
	dErrors "praxis/pkg/domain-errors"
)

// ErrNoCredentials is returned by Get when no pair is stored.
// Callers should check for it using errors.Is(err, credentials.ErrNoCredentials).
var ErrNoCredentials = dErrors.New(dErrors.CodeNotFound, "no credentials stored")

// Store persists the current access/refresh credential pair.
//
// Error Contract:
// - Get returns ErrNoCredentials when nothing is stored
// - Put and Clear return nil on success
// - Infrastructure failures are returned as wrapped domain errors
//
// The pair is always written and cleared as a unit; there is no way to update
// one credential without the other except through Put with a modified copy.
// No local expiry is enforced; expiry is discovered reactively by the gateway.
type Store interface {
	Put(pair models.CredentialPair) error
	Get() (models.CredentialPair, error)
	Clear() error
}
