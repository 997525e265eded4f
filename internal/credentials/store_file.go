package credentials

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"praxis/internal/auth/models"
	dErrors "praxis/pkg/domain-errors"
)

// FileStore persists the credential pair as a single JSON file so the pair
// survives process restarts within one installation. The file holds exactly
// the two credential strings plus the type tag and is replaced atomically on
// every Put; Clear removes it entirely so the pair can never be half-erased.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed credential store at path. Parent
// directories are created on first Put.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Put(pair models.CredentialPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not create credentials directory")
	}

	data, err := json.Marshal(pair)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not encode credentials")
	}

	// Write-then-rename keeps a concurrent reader from seeing a torn pair.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not write credentials")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not persist credentials")
	}
	return nil
}

func (s *FileStore) Get() (models.CredentialPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.CredentialPair{}, ErrNoCredentials
		}
		return models.CredentialPair{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not read credentials")
	}

	var pair models.CredentialPair
	if err := json.Unmarshal(data, &pair); err != nil {
		// A corrupt file is indistinguishable from no credentials for callers;
		// the next login overwrites it.
		return models.CredentialPair{}, ErrNoCredentials
	}
	if !pair.Valid() {
		return models.CredentialPair{}, ErrNoCredentials
	}
	return pair, nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not clear credentials")
	}
	return nil
}

var _ Store = (*FileStore)(nil)
