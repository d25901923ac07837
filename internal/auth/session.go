// Package auth holds the patient session: who is logged in, where that is
// persisted, and the gate in front of protected pages.
package auth

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"hospot/internal/domain"
)

// UserKey is the single storage key holding the current user.
const UserKey = "hospot_user"

type record struct {
	User domain.User `json:"user"`
}

// Session is the auth state of one client. It is passed explicitly and
// persists through the Storage it was restored from.
type Session struct {
	mu    sync.RWMutex
	store Storage
	user  *domain.User
}

// Restore reads the persisted record once. A missing record means logged
// out; an unreadable one is deleted and also means logged out.
func Restore(store Storage) (*Session, error) {
	s := &Session{store: store}
	raw, ok, err := store.Get(UserKey)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if !ok {
		return s, nil
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.User.Email == "" {
		if err := store.Delete(UserKey); err != nil {
			return nil, fmt.Errorf("drop corrupt session: %w", err)
		}
		return s, nil
	}
	u := rec.User
	s.user = &u
	return s, nil
}

// Login replaces any current user with u and persists it.
func (s *Session) Login(u domain.User) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	raw, err := json.Marshal(record{User: u})
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(UserKey, string(raw)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.user = &u
	return nil
}

// Logout clears memory and storage. Calling it while logged out is a no-op.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	if err := s.store.Delete(UserKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.user = nil
	return nil
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Session) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}
