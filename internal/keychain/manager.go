// Copyright (c) 2025 sqlblock
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain stores named database connections in the OS keychain.
//
// A query block can refer to a stored connection with `:db @name`, which keeps
// PostgreSQL credentials out of the document. macOS uses the `security` command when
// available; otherwise the 99designs/keyring library talks to the platform store.
package keychain

import (
	"errors"
	"runtime"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	mu            sync.Mutex
)

// ErrNotFound is returned when no connection is stored under a name.
var ErrNotFound = errors.New("connection alias not found")

// Manager provides thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "sqlblock"

const aliasPrefix = "alias_"

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewManagerWithKeyring wraps an already opened keyring.
func NewManagerWithKeyring(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// GetManager returns the global keychain manager instance.
// A failed initialization is retried on the next call.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}
	m, err := NewManager()
	if err != nil {
		return nil, err
	}
	globalManager = m
	return globalManager, nil
}

// openRing opens the OS keyring using native platform backends, plus the Secret
// Service and pass on Linux.
func openRing() (keyring.Keyring, error) {
	var allowed []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowed = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowed = []keyring.BackendType{keyring.WinCredBackend}
	case "linux":
		allowed = []keyring.BackendType{keyring.SecretServiceBackend, keyring.PassBackend}
	default:
		return nil, errors.New("secure storage not supported on " + runtime.GOOS)
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowed,
		PassPrefix:      ServiceName,
	}
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}
	return keyring.Open(cfg)
}

// ValidAlias reports whether name can be used as a connection alias.
func ValidAlias(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(r == '-' || r == '_' || r == '.' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// SaveAlias stores the database value of a named connection.
func (m *Manager) SaveAlias(name, value string) error {
	if !ValidAlias(name) {
		return errors.New("invalid alias name " + name + ": use letters, digits, '-', '_' or '.'")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(aliasPrefix+name, value)
	}
	return m.ring.Set(keyring.Item{Key: aliasPrefix + name, Data: []byte(value), Label: ServiceName + " " + name})
}

// LoadAlias retrieves the database value of a named connection.
func (m *Manager) LoadAlias(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		v, err := m.backend.Get(aliasPrefix + name)
		if err != nil {
			if strings.Contains(err.Error(), "key not found") {
				return "", ErrNotFound
			}
			return "", err
		}
		if v == "" {
			return "", ErrNotFound
		}
		return v, nil
	}

	it, err := m.ring.Get(aliasPrefix + name)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if len(it.Data) == 0 {
		return "", ErrNotFound
	}
	return string(it.Data), nil
}

// DeleteAlias removes a named connection. Removing a missing alias is not an error.
func (m *Manager) DeleteAlias(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Delete(aliasPrefix + name)
	}
	if err := m.ring.Remove(aliasPrefix + name); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
