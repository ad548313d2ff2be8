// Package keyring stores configuration secrets in the OS keyring.
//
// Secrets are saved under the "pass-fxa" service with the configuration key as
// account name, for example "sync.api_key".
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ServiceName is the keyring service holding pass-fxa secrets.
const ServiceName = "pass-fxa"

// SecretKeys are the configuration keys that may be kept in the keyring.
var SecretKeys = []string{"sync.api_key", "storage.secret_key", "database.password", "server.api_key"}

// IsSecretKey reports whether key may be kept in the keyring.
func IsSecretKey(key string) bool {
	for _, k := range SecretKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Save stores a secret.
func Save(key, value string) error {
	if err := keyring.Set(ServiceName, key, value); err != nil {
		return fmt.Errorf("failed to save %s to keyring: %w", key, err)
	}
	return nil
}

// Delete removes a secret. A missing secret is not an error.
func Delete(key string) error {
	err := keyring.Delete(ServiceName, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}

// Has reports whether a secret is stored.
func Has(key string) bool {
	_, err := keyring.Get(ServiceName, key)
	return err == nil
}

// Lookup returns the stored secret. Missing secrets and unavailable keyrings
// both report false.
func Lookup(key string) (string, bool) {
	value, err := keyring.Get(ServiceName, key)
	if err != nil {
		return "", false
	}
	return value, true
}

// Resolve returns value when set, otherwise the secret stored for key.
func Resolve(value, key string) string {
	if value != "" {
		return value
	}
	if stored, ok := Lookup(key); ok {
		return stored
	}
	return ""
}
