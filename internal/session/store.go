// Package session owns the client's authentication state: the bearer token
// and its verified flag. The store is the only component allowed to mutate
// session state; everything else holds a read reference.
package session

import (
	"sync"
	"time"

	"github.com/medogram/medoterm/internal/bus"
	"github.com/medogram/medoterm/internal/store"
)

// Store holds the bearer token and verified flag, persisting the token to
// the profile database. Invariant: verified is true iff the token is non-empty.
type Store struct {
	mu       sync.RWMutex
	token    string
	verified bool

	db  *store.DB
	bus *bus.Bus
}

// New creates a session store, rehydrating any persisted token.
func New(db *store.DB, b *bus.Bus) (*Store, error) {
	s := &Store{db: db, bus: b}
	if db != nil {
		token, err := db.GetCredential(store.KeyToken)
		if err != nil {
			return nil, err
		}
		s.token = token
		s.verified = token != ""
	}
	return s, nil
}

// Token returns the current bearer token and whether the session is verified.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.verified
}

// Verified reports whether the session holds a verified token.
func (s *Store) Verified() bool {
	_, ok := s.Token()
	return ok
}

// Set stores a new token, marks the session verified and persists it.
func (s *Store) Set(token string) error {
	if s.db != nil {
		if err := s.db.SetCredential(store.KeyToken, token); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.token = token
	s.verified = token != ""
	s.mu.Unlock()

	s.publish(bus.KindSessionChanged)
	return nil
}

// Clear logs the session out: token gone, verified false, persisted token removed.
func (s *Store) Clear() error {
	if s.db != nil {
		if err := s.db.DeleteCredential(store.KeyToken); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.token = ""
	s.verified = false
	s.mu.Unlock()

	s.publish(bus.KindSessionCleared)
	return nil
}

func (s *Store) publish(kind string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now()})
}
