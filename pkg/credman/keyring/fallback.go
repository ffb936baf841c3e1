package keyring

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const fileMode = 0600

// FileStore keeps the secret in a file readable only by its owner. It is
// the fallback when the system keyring is unavailable.
type FileStore struct {
	path string
}

var (
	fileReadFile = os.ReadFile
	fileRemove   = os.Remove
	fileRename   = os.Rename
	fileMkdirAll = os.MkdirAll
	fileTempFile = os.CreateTemp
)

// NewFileStore creates a store backed by path. The parent directory is
// created on Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (f *FileStore) Path() string { return f.path }

// Set writes the secret atomically using a temporary file and rename.
func (f *FileStore) Set(secret string) error {
	dir := filepath.Dir(f.path)
	if err := fileMkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmpFile, err := fileTempFile(dir, "."+filepath.Base(f.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.WriteString(secret); err != nil {
		tmpFile.Close()
		fileRemove(tmpPath)
		return fmt.Errorf("write secret: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		fileRemove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, fileMode); err != nil {
		fileRemove(tmpPath)
		return fmt.Errorf("set permissions: %w", err)
	}

	if err := fileRename(tmpPath, f.path); err != nil {
		fileRemove(tmpPath)
		return fmt.Errorf("rename secret file: %w", err)
	}
	return nil
}

func (f *FileStore) Get() (string, error) {
	data, err := fileReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", ErrNotFound
	}
	return secret, nil
}

// Delete removes the file. A missing file is not an error.
func (f *FileStore) Delete() error {
	if err := fileRemove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
