package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// Durable storage keys. These match the names the web console persists
// under, so a future shared credential helper can read either.
const (
	KeyToken      = "token"
	KeyUserInfo   = "userInfo"
	KeyModelStats = "modelStats"
)

// Storage is the durable key/value store backing the session. It is the
// mirror of the in-memory session state, never a second owner: the store
// writes through on every mutation and reads once at initialization.
type Storage interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error
}

// FileStorage persists each key as a file in a directory, one value per
// file, the way the CLI stores its user config under ~/.config.
type FileStorage struct {
	dir string
}

// NewFileStorage returns storage rooted at dir, creating it if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

// DefaultStorageDir returns the per-user state directory,
// ~/.config/mcloud/state.
func DefaultStorageDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "mcloud", "state"), nil
}

func (f *FileStorage) path(key string) string {
	return filepath.Join(f.dir, key)
}

func (f *FileStorage) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *FileStorage) Set(key, value string) error {
	if err := os.WriteFile(f.path(key), []byte(value), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (f *FileStorage) Delete(key string) error {
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// SplitStorage routes secret keys to one backend and everything else to
// another. The default wiring keeps the token in the OS keyring and the
// profile/stats snapshots in plain files.
type SplitStorage struct {
	secrets    Storage
	rest       Storage
	secretKeys map[string]bool
}

// NewSplitStorage returns storage routing the given keys to secrets.
func NewSplitStorage(secrets, rest Storage, secretKeys ...string) *SplitStorage {
	keys := make(map[string]bool, len(secretKeys))
	for _, k := range secretKeys {
		keys[k] = true
	}
	return &SplitStorage{secrets: secrets, rest: rest, secretKeys: keys}
}

func (s *SplitStorage) backend(key string) Storage {
	if s.secretKeys[key] {
		return s.secrets
	}
	return s.rest
}

func (s *SplitStorage) Get(key string) (string, bool, error) {
	return s.backend(key).Get(key)
}

func (s *SplitStorage) Set(key, value string) error {
	return s.backend(key).Set(key, value)
}

func (s *SplitStorage) Delete(key string) error {
	return s.backend(key).Delete(key)
}
