package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/teemow/calassist/internal/instrumentation"
	"github.com/teemow/calassist/internal/logging"
)

const (
	// DefaultSessionTTL is how long an idle session is kept before cleanup.
	DefaultSessionTTL = 24 * time.Hour

	defaultCleanupInterval = 10 * time.Minute
)

// entry tracks a session together with its access metadata. mu serializes
// the request flows that operate on the same session.
type entry struct {
	mu         sync.Mutex
	session    *Session
	lastAccess time.Time
}

// Manager keeps the sessions of a multi-user front-end such as the web UI.
// Idle sessions are removed after the configured timeout.
type Manager struct {
	sessions       map[string]*entry
	mu             sync.RWMutex
	cleanupTicker  *time.Ticker
	cleanupDone    chan struct{}
	stopOnce       sync.Once
	sessionTimeout time.Duration
	logger         *slog.Logger
	metrics        *instrumentation.Metrics
}

// NewManager creates a session manager with the default timeout and logger.
func NewManager() *Manager {
	return NewManagerWithLogger(DefaultSessionTTL, slog.Default(), nil)
}

// NewManagerWithLogger creates a session manager with a custom timeout, logger
// and optional metrics recorder.
func NewManagerWithLogger(timeout time.Duration, logger *slog.Logger, metrics *instrumentation.Metrics) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultSessionTTL
	}

	interval := defaultCleanupInterval
	if timeout < interval {
		interval = timeout
	}

	m := &Manager{
		sessions:       make(map[string]*entry),
		cleanupTicker:  time.NewTicker(interval),
		cleanupDone:    make(chan struct{}),
		sessionTimeout: timeout,
		logger:         logging.WithComponent(logger, "session_manager"),
		metrics:        metrics,
	}

	go m.cleanupExpiredSessions()

	return m
}

// Create starts a new session and registers it.
func (m *Manager) Create() *Session {
	s := New()

	m.mu.Lock()
	m.sessions[s.ID()] = &entry{session: s, lastAccess: time.Now()}
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.IncrementActiveSessions(context.Background())
	}
	m.logger.Debug("session created", logging.SessionHash(s.ID()))

	return s
}

// Acquire returns the session with exclusive access for one request flow.
// The caller must invoke the returned release function when done.
func (m *Manager) Acquire(id string) (*Session, func(), bool) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil, false
	}

	e.mu.Lock()
	e.lastAccess = time.Now()
	return e.session, e.mu.Unlock, true
}

// Remove deletes a session and reports whether it was registered.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	if m.metrics != nil {
		m.metrics.DecrementActiveSessions(context.Background())
	}
	m.logger.Debug("session removed", logging.SessionHash(id))
	return true
}

// Len returns the number of active sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// expire removes sessions idle for longer than the timeout, relative to now.
func (m *Manager) expire(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	expired := 0
	for id, e := range m.sessions {
		// TryLock skips sessions that are serving a request right now.
		if !e.mu.TryLock() {
			continue
		}
		idle := now.Sub(e.lastAccess)
		e.mu.Unlock()
		if idle > m.sessionTimeout {
			delete(m.sessions, id)
			expired++
		}
	}

	if expired > 0 && m.metrics != nil {
		m.metrics.AddActiveSessions(context.Background(), int64(-expired))
	}
	return expired
}

func (m *Manager) cleanupExpiredSessions() {
	for {
		select {
		case now := <-m.cleanupTicker.C:
			if n := m.expire(now); n > 0 {
				m.logger.Info("cleaned up expired sessions", "count", n)
			}
		case <-m.cleanupDone:
			return
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		m.cleanupTicker.Stop()
		close(m.cleanupDone)
	})
}
