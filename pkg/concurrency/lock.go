package concurrency

import (
	"sync"
)

// KeyedMutex serializes callers that share a key while letting different keys proceed
// in parallel. A key's mutex is dropped once nobody holds or waits on it.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*refMutex),
	}
}

func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	m, exists := k.locks[key]
	if !exists {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
}

// Unlock releases key. Unlocking a key that is not locked is a no-op.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	m, exists := k.locks[key]
	if !exists {
		k.mu.Unlock()
		return
	}
	m.refs--
	if m.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	m.Unlock()
}

// Len returns the number of keys currently held or waited on
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
