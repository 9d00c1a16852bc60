package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/peterbourgon/diskv/v3"

	"github.com/balkashynov/worktime/internal/client"
)

// Fixed keys; clearing both is a full logout
const (
	TokenKey = "auth_token"
	UserKey  = "user"
)

// Store keeps the bearer token and cached profile on disk
type Store struct {
	d *diskv.Diskv
}

// Open returns a store rooted at dir. The directory is created on first write
func Open(dir string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 * 1024,
		FilePerm:     0600,
		PathPerm:     0700,
	})}
}

// Load returns the stored token and profile. A missing token yields "" and
// a nil user without error
func (s *Store) Load() (string, *client.User, error) {
	token, err := s.d.Read(TokenKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("failed to read token: %w", err)
	}

	raw, err := s.d.Read(UserKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return string(token), nil, nil
		}
		return "", nil, fmt.Errorf("failed to read user: %w", err)
	}

	var user client.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return "", nil, fmt.Errorf("failed to decode stored user: %w", err)
	}
	return string(token), &user, nil
}

// Save writes the token and profile. When either write fails the previous
// pair is put back, so a failed login never leaves a half written credential
func (s *Store) Save(token string, user client.User) error {
	prevToken, tokenErr := s.d.Read(TokenKey)
	prevUser, userErr := s.d.Read(UserKey)

	if err := s.d.Write(TokenKey, []byte(token)); err != nil {
		s.restore(TokenKey, prevToken, tokenErr)
		return fmt.Errorf("failed to write token: %w", err)
	}
	if err := s.SaveUser(user); err != nil {
		s.restore(TokenKey, prevToken, tokenErr)
		s.restore(UserKey, prevUser, userErr)
		return err
	}
	return nil
}

// restore puts back a value read before a failed Save, or erases the key
// when there was none
func (s *Store) restore(key string, prev []byte, readErr error) {
	if readErr != nil {
		_ = s.d.Erase(key)
		return
	}
	_ = s.d.Write(key, prev)
}

// SaveUser refreshes only the cached profile
func (s *Store) SaveUser(user client.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.d.Write(UserKey, raw); err != nil {
		return fmt.Errorf("failed to write user: %w", err)
	}
	return nil
}

// Clear removes both keys. Missing keys are not an error
func (s *Store) Clear() error {
	for _, key := range []string{TokenKey, UserKey} {
		if err := s.d.Erase(key); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to erase %s: %w", key, err)
		}
	}
	return nil
}
