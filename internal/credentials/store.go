// internal/credentials/store.go
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name for keyring storage
	KeyringService = "affkit"
	// SerpAPIAccount is the account the search API key is stored under
	SerpAPIAccount = "serpapi"
	// FallbackDir is the directory for file-based storage (when keyring fails)
	FallbackDir = ".affkit"
)

// ErrNotFound is returned when no secret is stored for an account.
var ErrNotFound = errors.New("no API key stored")

// Store keeps secrets in the OS keyring, or in 0600 files when no keyring
// is reachable, as on CI or in Codespaces.
type Store struct {
	dir string

	once    sync.Once
	useFile bool
}

// NewStore creates a store whose file fallback lives in dir. An empty dir
// selects ~/.affkit.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate home directory: %w", err)
		}
		dir = filepath.Join(home, FallbackDir)
	}
	return &Store{dir: dir}, nil
}

// fileBased checks once whether the keyring is usable.
func (s *Store) fileBased() bool {
	s.once.Do(func() {
		if os.Getenv("CODESPACES") != "" || os.Getenv("CI") != "" {
			s.useFile = true
			return
		}
		testKey := "_test_keyring_access_"
		if err := keyring.Set(KeyringService, testKey, "test"); err != nil {
			log.Debug().Err(err).Msg("Keyring unavailable, using file storage")
			s.useFile = true
			return
		}
		keyring.Delete(KeyringService, testKey)
	})
	return s.useFile
}

// Backend names where secrets are kept.
func (s *Store) Backend() string {
	if s.fileBased() {
		return "file"
	}
	return "keyring"
}

func (s *Store) path(account string) (string, error) {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, account+".key"), nil
}

// Save stores secret under account.
func (s *Store) Save(account, secret string) error {
	secret = strings.TrimSpace(secret)
	if account == "" || secret == "" {
		return fmt.Errorf("account and secret cannot be empty")
	}

	if s.fileBased() {
		path, err := s.path(account)
		if err != nil {
			return fmt.Errorf("failed to get key path: %w", err)
		}
		if err := os.WriteFile(path, []byte(secret), 0600); err != nil {
			return fmt.Errorf("failed to save key file: %w", err)
		}
		return nil
	}

	if err := keyring.Set(KeyringService, account, secret); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}
	return nil
}

// Load returns the secret stored under account, or ErrNotFound.
func (s *Store) Load(account string) (string, error) {
	if s.fileBased() {
		path, err := s.path(account)
		if err != nil {
			return "", fmt.Errorf("failed to get key path: %w", err)
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		if err != nil {
			return "", fmt.Errorf("failed to load key file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	secret, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load from keyring: %w", err)
	}
	return secret, nil
}

// Delete removes the secret stored under account. Deleting a missing
// secret is not an error.
func (s *Store) Delete(account string) error {
	if s.fileBased() {
		path, err := s.path(account)
		if err != nil {
			return fmt.Errorf("failed to get key path: %w", err)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete key file: %w", err)
		}
		return nil
	}

	if err := keyring.Delete(KeyringService, account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
