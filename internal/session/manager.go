package session

import (
	"sync"

	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/logging"
)

// Store persists a session between runs.
type Store interface {
	Save(sess *Session) error
	Load() (*Session, error)
	Clear() error
}

// Manager owns the current session. It is the only writer of the session
// store, and every transition notifies registered listeners.
type Manager struct {
	store  Store
	logger *logging.Logger

	mu        sync.Mutex
	current   *Session
	listeners []func(*Session)
}

// NewManager creates a manager over store. A nil logger discards output.
func NewManager(store Store, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Manager{store: store, logger: logger}
}

// Restore loads the persisted session into memory. A corrupted session file
// is cleared and reported as errors.ErrSessionNotFound so callers prompt
// for a fresh sign-in.
func (m *Manager) Restore() (*Session, error) {
	sess, err := m.store.Load()
	if err != nil {
		if errors.Is(err, errors.ErrSessionCorrupted) {
			m.logger.Warn("discarding corrupted session", "error", err)
			_ = m.store.Clear()
			return nil, errors.ErrSessionNotFound
		}
		return nil, err
	}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()
	return sess, nil
}

// Current returns the active session, or nil when signed out.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Login persists sess and makes it current.
func (m *Manager) Login(sess Session) error {
	if err := m.store.Save(&sess); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = &sess
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	m.logger.WithPerson(sess.PersonID).Info("signed in", "level", string(sess.PersonLevel))
	notify(listeners, &sess)
	return nil
}

// Logout clears the persisted session and the in-memory copy. When the
// store cannot be cleared the session stays current, so this process and the
// next run agree on who is signed in.
func (m *Manager) Logout() error {
	if err := m.store.Clear(); err != nil {
		return err
	}

	m.mu.Lock()
	prev := m.current
	m.current = nil
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	if prev != nil {
		m.logger.WithPerson(prev.PersonID).Info("signed out")
	}
	notify(listeners, nil)
	return nil
}

// Invalidate signs out because the server rejected sess. It only acts when
// sess is still the current session, so concurrent 401s for the same token
// clear the session exactly once. It reports whether it cleared anything.
func (m *Manager) Invalidate(sess *Session) bool {
	m.mu.Lock()
	if m.current == nil || sess == nil || m.current.Token != sess.Token {
		m.mu.Unlock()
		return false
	}
	m.current = nil
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.logger.Error("failed to clear rejected session", "error", err)
	}
	m.logger.WithPerson(sess.PersonID).Warn("session rejected by server, signed out")
	notify(listeners, nil)
	return true
}

// Reload re-reads the store after an external change, such as another
// process signing in or out. Listeners fire only when the token changed.
func (m *Manager) Reload() {
	sess, err := m.store.Load()
	if err != nil {
		sess = nil
	}

	m.mu.Lock()
	prevToken := ""
	if m.current != nil {
		prevToken = m.current.Token
	}
	newToken := ""
	if sess != nil {
		newToken = sess.Token
	}
	if prevToken == newToken {
		m.mu.Unlock()
		return
	}
	m.current = sess
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	m.logger.Debug("session changed on disk", "signed_in", sess != nil)
	notify(listeners, sess)
}

// OnChange registers fn to run after every sign-in or sign-out. fn receives
// the new session, or nil when signed out.
func (m *Manager) OnChange(fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) snapshotListeners() []func(*Session) {
	out := make([]func(*Session), len(m.listeners))
	copy(out, m.listeners)
	return out
}

func notify(listeners []func(*Session), sess *Session) {
	for _, fn := range listeners {
		fn(sess)
	}
}
