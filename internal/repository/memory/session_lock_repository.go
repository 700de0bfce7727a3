package memory

import (
	"sync"

	"github.com/patrickmn/go-cache"
)

// SessionLockRepository hands out one mutex per chat session so that
// concurrent completion calls on the same session cannot interleave
// their message appends. Locks never expire: evicting a held mutex
// would silently break the serialization guarantee.
type SessionLockRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSessionLockRepository() *SessionLockRepository {
	return &SessionLockRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Get returns the mutex of the given session, creating it on first use.
func (r *SessionLockRepository) Get(sessionID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(sessionID); found {
		return x.(*sync.Mutex)
	}
	lock := &sync.Mutex{}
	r.cache.Set(sessionID, lock, cache.NoExpiration)
	return lock
}

// Delete drops the session's mutex, e.g. after the session is removed.
func (r *SessionLockRepository) Delete(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(sessionID)
}
