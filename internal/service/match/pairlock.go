package match

import "sync"

// pairLocks serializes match-state transitions per unordered pair. Entries
// are reference-counted and removed once the last holder releases, so the
// table stays proportional to in-flight swipes rather than to all pairs ever
// seen.
type pairLocks struct {
	mu      sync.Mutex
	entries map[string]*pairLock
}

type pairLock struct {
	mu   sync.Mutex
	refs int
}

func newPairLocks() *pairLocks {
	return &pairLocks{entries: make(map[string]*pairLock)}
}

// Lock acquires the lock for a canonical pair key, blocking until any other
// holder of the same key releases.
func (l *pairLocks) Lock(key string) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &pairLock{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the lock for a canonical pair key.
func (l *pairLocks) Unlock(key string) {
	l.mu.Lock()
	e := l.entries[key]
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()

	e.mu.Unlock()
}
