// Package credman manages the restart-evasion override passphrase.
//
// Only a bcrypt hash is stored, in the OS keyring when one is available and
// in a private file otherwise. The passphrase is a speed bump for the user
// who set it, not access control.
package credman

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/crypto/bcrypt"

	"github.com/warpdl/lightsout/pkg/credman/keyring"
)

const keyField = "override"

// MinPassphraseLength is the shortest passphrase Set accepts.
const MinPassphraseLength = 4

var (
	// ErrWeakPassphrase is returned by Set for a too short passphrase.
	ErrWeakPassphrase = errors.New("passphrase too short")

	hashCost = bcrypt.DefaultCost
)

// SecretStore keeps one secret string.
type SecretStore interface {
	Set(secret string) error
	// Get returns keyring.ErrNotFound when nothing is stored.
	Get() (string, error)
	Delete() error
}

// OverrideStore saves and verifies the override passphrase hash.
type OverrideStore struct {
	primary  SecretStore
	fallback SecretStore
}

// NewOverrideStore uses the OS keyring under appName and falls back to the
// file at fallbackPath.
func NewOverrideStore(appName, fallbackPath string) *OverrideStore {
	return NewOverrideStoreWith(keyring.NewKeyring(appName, keyField), keyring.NewFileStore(fallbackPath))
}

// NewOverrideStoreWith builds a store over explicit backends. primary may
// be nil.
func NewOverrideStoreWith(primary, fallback SecretStore) *OverrideStore {
	return &OverrideStore{primary: primary, fallback: fallback}
}

// Set hashes passphrase and stores it, replacing any earlier one. The
// returned location is "keyring" or "file".
func (s *OverrideStore) Set(passphrase string) (string, error) {
	if len(strings.TrimSpace(passphrase)) < MinPassphraseLength {
		return "", fmt.Errorf("%w: need at least %d characters", ErrWeakPassphrase, MinPassphraseLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash passphrase: %w", err)
	}
	if s.primary != nil {
		if err := s.primary.Set(string(hash)); err == nil {
			_ = s.fallback.Delete()
			return "keyring", nil
		}
	}
	if err := s.fallback.Set(string(hash)); err != nil {
		return "", fmt.Errorf("store passphrase: %w", err)
	}
	if s.primary != nil {
		_ = s.primary.Delete()
	}
	return "file", nil
}

// Clear removes the passphrase from both backends.
func (s *OverrideStore) Clear() error {
	var result *multierror.Error
	if s.primary != nil {
		if err := s.primary.Delete(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := s.fallback.Delete(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func (s *OverrideStore) hash() (string, bool) {
	if s.primary != nil {
		if h, err := s.primary.Get(); err == nil {
			return h, true
		}
	}
	if h, err := s.fallback.Get(); err == nil {
		return h, true
	}
	return "", false
}

// Configured reports whether a passphrase is stored.
func (s *OverrideStore) Configured() bool {
	_, ok := s.hash()
	return ok
}

// Verify reports whether passphrase matches the stored hash. It is false
// when nothing is stored.
func (s *OverrideStore) Verify(passphrase string) bool {
	h, ok := s.hash()
	if !ok || passphrase == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h), []byte(passphrase)) == nil
}
