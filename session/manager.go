package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const (
	DefaultMaxSessions = 1024
	DefaultTTL         = 12 * time.Hour
)

// Manager keeps sessions in memory, evicting the least recently used and
// any session idle for longer than the TTL.
type Manager struct {
	cache  *expirable.LRU[uuid.UUID, *Session]
	logger *zap.Logger
}

// NewManager creates a session manager
func NewManager(size int, ttl time.Duration, logger *zap.Logger) *Manager {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{logger: logger}
	m.cache = expirable.NewLRU[uuid.UUID, *Session](size, m.onEvict, ttl)
	return m
}

func (m *Manager) onEvict(id uuid.UUID, s *Session) {
	if s.HasUnsavedChanges() {
		m.logger.Warn("session evicted with unsaved changes", zap.String("session_id", id.String()))
		return
	}
	m.logger.Debug("session evicted", zap.String("session_id", id.String()))
}

// Create starts a new session
func (m *Manager) Create() *Session {
	s := New()
	m.cache.Add(s.ID, s)
	return s
}

// Get returns a live session and refreshes its TTL
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	s, ok := m.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	// re-adding resets the expiry
	m.cache.Add(id, s)
	return s, nil
}

// Close ends a session. Unsaved results block the close unless force is set.
func (m *Manager) Close(id uuid.UUID, force bool) error {
	s, ok := m.cache.Peek(id)
	if !ok {
		return ErrNotFound
	}
	if !force && s.HasUnsavedChanges() {
		return ErrUnsavedChanges
	}
	m.cache.Remove(id)
	return nil
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	return m.cache.Len()
}
