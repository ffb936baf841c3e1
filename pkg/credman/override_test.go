package credman

import (
	"errors"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/warpdl/lightsout/pkg/credman/keyring"
)

type memStore struct {
	secret string
	setErr error
	sets   int
}

func (m *memStore) Set(s string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.secret = s
	return nil
}

func (m *memStore) Get() (string, error) {
	if m.secret == "" {
		return "", keyring.ErrNotFound
	}
	return m.secret, nil
}

func (m *memStore) Delete() error {
	m.secret = ""
	return nil
}

func withMinCost(t *testing.T) {
	t.Helper()
	old := hashCost
	hashCost = bcrypt.MinCost
	t.Cleanup(func() { hashCost = old })
}

func TestOverrideStore_KeyringPreferred(t *testing.T) {
	withMinCost(t)
	primary := &memStore{}
	fallback := &memStore{secret: "stale"}
	s := NewOverrideStoreWith(primary, fallback)

	if !s.Configured() {
		t.Fatal("stale fallback hash should count as configured")
	}
	where, err := s.Set("let me stay up")
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if where != "keyring" {
		t.Errorf("stored in %s, want keyring", where)
	}
	if fallback.secret != "" {
		t.Error("fallback copy should be removed")
	}
	if !s.Verify("let me stay up") {
		t.Error("Verify rejected the right passphrase")
	}
	if s.Verify("let me stay up!") || s.Verify("") {
		t.Error("Verify accepted a wrong passphrase")
	}
}

func TestOverrideStore_FallsBackToFile(t *testing.T) {
	withMinCost(t)
	primary := &memStore{setErr: errors.New("no secret service")}
	path := filepath.Join(t.TempDir(), "override.hash")
	s := NewOverrideStoreWith(primary, keyring.NewFileStore(path))

	where, err := s.Set("hunter22")
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if where != "file" {
		t.Errorf("stored in %s, want file", where)
	}
	if !s.Configured() || !s.Verify("hunter22") {
		t.Error("file-backed passphrase not usable")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Configured() || s.Verify("hunter22") {
		t.Error("passphrase still usable after Clear")
	}
}

func TestOverrideStore_NilPrimary(t *testing.T) {
	withMinCost(t)
	s := NewOverrideStoreWith(nil, &memStore{})
	if _, err := s.Set("abcd"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !s.Verify("abcd") {
		t.Error("Verify failed without a keyring")
	}
}

func TestOverrideStore_WeakPassphrase(t *testing.T) {
	s := NewOverrideStoreWith(&memStore{}, &memStore{})
	for _, p := range []string{"", "abc", "   x  "} {
		if _, err := s.Set(p); !errors.Is(err, ErrWeakPassphrase) {
			t.Errorf("Set(%q) error = %v, want ErrWeakPassphrase", p, err)
		}
	}
	if s.Configured() {
		t.Error("nothing should be stored")
	}
}

func TestOverrideStore_GarbageHash(t *testing.T) {
	s := NewOverrideStoreWith(&memStore{secret: "not a bcrypt hash"}, &memStore{})
	if !s.Configured() {
		t.Fatal("expected configured")
	}
	if s.Verify("anything") {
		t.Error("garbage hash must not verify")
	}
}
