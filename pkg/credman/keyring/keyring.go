// Package keyring stores a single secret in the operating system's native
// keyring, or in a private file when no keyring service is available.
package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// ErrNotFound is returned by Get when no secret is stored.
var ErrNotFound = errors.New("secret not found")

// Keyring stores the secret under AppName/KeyField in the OS keyring.
type Keyring struct {
	AppName  string
	KeyField string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
)

func NewKeyring(appName, keyField string) *Keyring {
	return &Keyring{
		AppName:  appName,
		KeyField: keyField,
	}
}

func (k *Keyring) Set(secret string) error {
	return keyringSet(k.AppName, k.KeyField, secret)
}

func (k *Keyring) Get() (string, error) {
	secret, err := keyringGet(k.AppName, k.KeyField)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return secret, nil
}

// Delete removes the secret. A missing secret is not an error.
func (k *Keyring) Delete() error {
	err := keyringDelete(k.AppName, k.KeyField)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
