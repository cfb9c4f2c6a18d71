package emotion

import "sync"

// PendingStore holds tags extracted from an in-flight response until the
// transport confirms delivery. Entries are keyed by a per-response
// correlation id, so concurrent responses for different conversations can
// never see each other's tags.
type PendingStore struct {
	mu   sync.Mutex
	tags map[string][]string
}

// NewPendingStore creates an empty store.
func NewPendingStore() *PendingStore {
	return &PendingStore{tags: make(map[string][]string)}
}

// Put records the pending tags for a response id, replacing any prior entry.
// An empty tag list removes the entry.
func (s *PendingStore) Put(responseID string, tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(tags) == 0 {
		delete(s.tags, responseID)
		return
	}
	s.tags[responseID] = tags
}

// Take removes and returns the pending tags for a response id.
// Returns nil if nothing is pending. The removal happens regardless of what
// the caller does with the result, so a failing dispatch can never leak
// stale tags into the next cycle.
func (s *PendingStore) Take(responseID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags := s.tags[responseID]
	delete(s.tags, responseID)
	return tags
}

// Len returns the number of in-flight entries.
func (s *PendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tags)
}
