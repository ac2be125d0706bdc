package concurrency

import (
	"sync"
)

// KeyedGuard serialises tasks that share a key. Tasks with different keys run
// concurrently. Waiters are counted so idle keys are dropped from the map.
type KeyedGuard struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu      sync.Mutex
	waiters int
}

func NewKeyedGuard() *KeyedGuard {
	return &KeyedGuard{locks: make(map[string]*keyedLock)}
}

// Execute runs task while holding the lock for key.
func (g *KeyedGuard) Execute(key string, task func() error) error {
	g.mu.Lock()
	l, ok := g.locks[key]
	if !ok {
		l = &keyedLock{}
		g.locks[key] = l
	}
	l.waiters++
	g.mu.Unlock()

	l.mu.Lock()
	defer func() {
		l.mu.Unlock()
		g.mu.Lock()
		l.waiters--
		if l.waiters == 0 {
			delete(g.locks, key)
		}
		g.mu.Unlock()
	}()
	return task()
}

// Len reports how many keys currently have running or waiting tasks.
func (g *KeyedGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.locks)
}
