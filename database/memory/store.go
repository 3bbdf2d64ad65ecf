// Package memory implements an in-process nonce store.
package memory

import (
	"context"
	"sync"
	"time"
)

// Store keeps nonces in a map. Replays are only detected within a single
// process and the set is lost on restart.
type Store struct {
	mu     sync.Mutex
	nonces map[string]time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{nonces: make(map[string]time.Time)}
}

// Remember records nonce and reports whether it was new.
func (s *Store) Remember(_ context.Context, nonce string, seenAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nonces[nonce]; ok {
		return false, nil
	}
	s.nonces[nonce] = seenAt
	return true, nil
}

// Purge forgets nonces seen before the cutoff.
func (s *Store) Purge(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for nonce, seenAt := range s.nonces {
		if seenAt.Before(before) {
			delete(s.nonces, nonce)
			n++
		}
	}
	return n, nil
}

// Count returns the number of stored nonces.
func (s *Store) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.nonces)), nil
}
