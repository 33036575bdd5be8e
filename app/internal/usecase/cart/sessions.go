package cart

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	domcart "example.com/shop-console/app/internal/domain/cart"
)

const DefaultSessionCapacity = 10000

// Sessions hands out one Store per browser session. Stores are kept in an LRU
// cache up to capacity and rehydrated from storage when an evicted session
// comes back. A store that is still leased by a request survives eviction, so
// a session never has two live stores writing the same key.
type Sessions struct {
	mu      sync.Mutex
	storage domcart.Storage
	log     logrus.FieldLogger
	cache   *lru.Cache[string, *Store]
	leases  map[string]*lease
}

type lease struct {
	store *Store
	refs  int
}

func NewSessions(storage domcart.Storage, log logrus.FieldLogger, capacity int) (*Sessions, error) {
	if capacity <= 0 {
		capacity = DefaultSessionCapacity
	}
	s := &Sessions{
		storage: storage,
		log:     log,
		leases:  make(map[string]*lease),
	}
	cache, err := lru.NewWithEvict[string, *Store](capacity, s.evicted)
	if err != nil {
		return nil, errors.Wrap(err, "create session cache")
	}
	s.cache = cache
	return s, nil
}

// Acquire returns the store for sessionID and a release func the caller must
// invoke once it is done with the store. Release is idempotent.
func (s *Sessions) Acquire(ctx context.Context, sessionID string) (*Store, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, ok := s.cache.Get(sessionID)
	if !ok {
		if l, held := s.leases[sessionID]; held {
			store = l.store
		} else {
			store = NewStore(ctx, domcart.Scope(s.storage, "session:"+sessionID), s.log.WithField("session", sessionID))
		}
		s.cache.Add(sessionID, store)
	}

	l, held := s.leases[sessionID]
	if !held {
		l = &lease{store: store}
		s.leases[sessionID] = l
	}
	l.refs++

	var once sync.Once
	return store, func() { once.Do(func() { s.release(sessionID) }) }
}

func (s *Sessions) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.leases[sessionID]
	if !ok {
		return
	}
	l.refs--
	if l.refs <= 0 {
		delete(s.leases, sessionID)
	}
}

func (s *Sessions) evicted(sessionID string, _ *Store) {
	s.log.WithField("session", sessionID).Debug("cart: session evicted from cache")
}

func (s *Sessions) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(sessionID)
}

// Len reports the number of cached sessions.
func (s *Sessions) Len() int {
	return s.cache.Len()
}
