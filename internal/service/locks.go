package service

import "sync"

// keyedMutex provides one mutex per string key, the in-process counterpart of
// a per-row SELECT ... FOR UPDATE. Mutexes are created on first use and kept
// for the process lifetime, matching the no-expiry policy of the idempotency
// index.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its unlock func.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
