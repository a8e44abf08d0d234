package concurrency

import (
	"sync"
)

// UserLockKey builds the lock key serializing all mutations for one user
func UserLockKey(userID string) string {
	return "user:" + userID
}

// LockManager handles named locks. Engine mutations for a user all take
// the same named lock, so state changes for one user are serialized even
// when events arrive concurrently.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns a mutex for the given key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// WithLock runs fn while holding the named lock
func (lm *LockManager) WithLock(key string, fn func() error) error {
	mu := lm.GetLock(key)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}
