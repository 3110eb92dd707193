// Package session caches the dashboard access token for one client session. The
// token lives in memory and, encrypted, in a pluggable backend so it survives a
// restart of the client.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrNoToken means the caller has to authenticate again.
var ErrNoToken = errors.New("no session token")

type Session struct {
	id      string
	backend Backend
	cipher  *Cipher

	mu     sync.Mutex
	cached string
}

func New(id string, backend Backend, cipher *Cipher) *Session {
	return &Session{id: id, backend: backend, cipher: cipher}
}

func (s *Session) ID() string {
	return s.id
}

// Get returns the cached token, falling back to the backend. An entry that fails
// to decrypt is removed and reported as ErrNoToken.
func (s *Session) Get(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" {
		return s.cached, nil
	}

	encrypted, err := s.backend.Load(s.id)
	if err != nil {
		return "", ErrNoToken
	}
	token, err := s.cipher.Decrypt(encrypted)
	if err != nil {
		slog.Warn("discarding unreadable session entry", "session", s.id, "error", err)
		_ = s.backend.Delete(s.id)
		return "", ErrNoToken
	}

	s.cached = token
	return token, nil
}

func (s *Session) Set(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encrypted, err := s.cipher.Encrypt(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Save(s.id, encrypted); err != nil {
		return err
	}
	s.cached = token
	return nil
}

func (s *Session) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = ""
	return s.backend.Delete(s.id)
}

type contextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}
