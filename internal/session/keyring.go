package session

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "mcloud-cli"

// KeyringStorage keeps values in the OS keychain/credential manager.
// Entries are scoped per server so tokens for different deployments
// do not collide.
type KeyringStorage struct {
	server string
}

// NewKeyringStorage returns keyring-backed storage scoped to server.
func NewKeyringStorage(server string) *KeyringStorage {
	return &KeyringStorage{server: server}
}

func (k *KeyringStorage) account(key string) string {
	return fmt.Sprintf("%s-%s", key, k.server)
}

func (k *KeyringStorage) Get(key string) (string, bool, error) {
	value, err := keyring.Get(keyringService, k.account(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load %s from keyring: %w", key, err)
	}
	return value, true, nil
}

func (k *KeyringStorage) Set(key, value string) error {
	if err := keyring.Set(keyringService, k.account(key), value); err != nil {
		return fmt.Errorf("failed to save %s to keyring: %w", key, err)
	}
	return nil
}

func (k *KeyringStorage) Delete(key string) error {
	if err := keyring.Delete(keyringService, k.account(key)); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}
