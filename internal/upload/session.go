// Package upload tracks short-lived per-user upload sessions.
// A session authorizes the user's next attachment-bearing message to be
// ingested into a meme category.
package upload

import (
	"sync"
	"time"

	. "github.com/Akuma-real/memegate/internal/logging"
)

// Key builds the session key for a conversation/user pair.
func Key(sessionID, userID string) string {
	return sessionID + "_" + userID
}

// Session holds the target category and expiry for one pending upload.
type Session struct {
	Category  string // display name as the user typed it
	ExpiresAt time.Time
}

// Manager is a keyed upload-session state machine: Idle -> AwaitingUpload ->
// Idle on consumption or expiry. At most one live session per key.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time // overridable for tests
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Open creates or overwrites the session for key, expiring after ttl.
func (m *Manager) Open(key, category string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = Session{
		Category:  category,
		ExpiresAt: m.now().Add(ttl),
	}
	L_debug("upload: session opened", "key", key, "category", category, "ttl", ttl.String())
}

// Check returns the target category for key if a live session exists.
// An absent or expired session returns ("", false); expired entries are
// removed as a side effect, silently. The entry is not consumed here.
func (m *Manager) Check(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[key]
	if !ok {
		return "", false
	}
	if m.now().After(sess.ExpiresAt) {
		delete(m.sessions, key)
		L_debug("upload: session expired", "key", key)
		return "", false
	}
	return sess.Category, true
}

// Consume removes the session for key. Called after an ingestion attempt,
// successful or not.
func (m *Manager) Consume(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

// Sweep removes all expired sessions and returns how many were dropped.
// Expiry is otherwise lazy (checked on the next event); the sweep keeps the
// map from accumulating entries for users who never send an image.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, sess := range m.sessions {
		if now.After(sess.ExpiresAt) {
			delete(m.sessions, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live entries (expired but unswept included).
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
