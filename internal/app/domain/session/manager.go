// Package session manages the opaque tokens the place-search API uses to
// group a user's autocomplete keystrokes with the eventual selection.
// Each token is a tiny state machine: Begin puts it in Active, and the
// operation that closes the interaction (a place retrieve or a submitted
// search) spends it back to Idle. A spent token is never reused; the next
// interaction begins with a fresh one.
package session

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Token is an opaque per-interaction identifier. It lives only in memory.
type Token string

type Manager struct {
	mu     sync.Mutex
	active map[Token]struct{}
	logger *zap.Logger
}

func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		active: make(map[Token]struct{}),
		logger: logger,
	}
}

// Begin issues a fresh token and marks it Active. Tokens are UUIDs, so no
// two open sessions can share one.
func (m *Manager) Begin() Token {
	token := Token(uuid.NewString())

	m.mu.Lock()
	m.active[token] = struct{}{}
	m.mu.Unlock()

	m.logger.Debug("Search session started", zap.String("session_token", string(token)))
	return token
}

// IsActive reports whether the token was issued and not yet spent.
func (m *Manager) IsActive(token Token) bool {
	if token == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[token]
	return ok
}

// End spends the token. Idempotent; ending an unknown or already-spent
// token is a no-op.
func (m *Manager) End(token Token) {
	m.mu.Lock()
	_, ok := m.active[token]
	delete(m.active, token)
	m.mu.Unlock()

	if ok {
		m.logger.Debug("Search session ended", zap.String("session_token", string(token)))
	}
}
