package capture

import (
	"errors"
	"fmt"
	"log"

	"github.com/99designs/keyring"
)

const (
	// KeyringService is the service name entries are stored under.
	KeyringService = "MemoirCapture"
	tokenKey       = "api_token"
)

// TokenStore keeps the Memoir API token in the OS keychain.
type TokenStore struct {
	kr keyring.Keyring
}

// OpenTokenStore opens the platform keyring.
func OpenTokenStore() (*TokenStore, error) {
	kr, err := keyring.Open(keyring.Config{
		ServiceName: KeyringService,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
		},
		LibSecretCollectionName:  "login",
		WinCredPrefix:            KeyringService,
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring for service '%s': %w", KeyringService, err)
	}
	return NewTokenStore(kr), nil
}

// NewTokenStore wraps an already opened keyring.
func NewTokenStore(kr keyring.Keyring) *TokenStore {
	return &TokenStore{kr: kr}
}

// Token returns the stored token, or "" when none is set.
func (s *TokenStore) Token() (string, error) {
	item, err := s.kr.Get(tokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read API token from keyring: %w", err)
	}
	return string(item.Data), nil
}

// SetToken stores token; an empty token removes it.
func (s *TokenStore) SetToken(token string) error {
	if token == "" {
		err := s.kr.Remove(tokenKey)
		if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("failed to remove API token from keyring: %w", err)
		}
		log.Println("Removed Memoir API token from keyring.")
		return nil
	}
	err := s.kr.Set(keyring.Item{
		Key:         tokenKey,
		Data:        []byte(token),
		Label:       "Memoir API token",
		Description: "Managed by Memoir Quick Capture",
	})
	if err != nil {
		return fmt.Errorf("failed to store API token in keyring: %w", err)
	}
	return nil
}
