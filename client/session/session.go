// Package session holds the authenticated identity of a client between the
// login and logout calls.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/Alturino/ordering/user/pkg/response"
)

type Data struct {
	Token string        `json:"token"`
	User  response.User `json:"user"`
}

// Store persists session data across process runs.
type Store interface {
	Load() (Data, error)
	Save(Data) error
	Clear() error
}

type Session struct {
	mu    sync.RWMutex
	data  Data
	store Store
}

// New returns a session restored from store. A nil store keeps the session in
// memory only.
func New(store Store) (*Session, error) {
	s := &Session{store: store}
	if store == nil {
		return s, nil
	}
	data, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed loading session with error=%w", err)
	}
	s.data = data
	return s, nil
}

func (s *Session) Start(token string, user response.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = Data{Token: token, User: user}
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(s.data); err != nil {
		return fmt.Errorf("failed saving session with error=%w", err)
	}
	return nil
}

func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = Data{}
	if s.store == nil {
		return nil
	}
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed clearing session with error=%w", err)
	}
	return nil
}

func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

func (s *Session) User() (response.User, bool) {
	if s == nil {
		return response.User{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.User, s.data.Token != ""
}

func (s *Session) Active() bool {
	return s.Token() != ""
}

type sessionKey struct{}

func WithSession(c context.Context, s *Session) context.Context {
	return context.WithValue(c, sessionKey{}, s)
}

// FromContext returns nil when c carries no session.
func FromContext(c context.Context) *Session {
	s, _ := c.Value(sessionKey{}).(*Session)
	return s
}
