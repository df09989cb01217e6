package usecase

import (
	"context"
	"sync"
)

// keyedMutex serializes work per key while letting distinct keys run in parallel.
// Entries are dropped once no goroutine holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

// keyedLock is a one-slot semaphore so a waiter can give up on ctx.
type keyedLock struct {
	slot    chan struct{}
	waiters int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock acquires the lock for key and returns its release func. It returns
// ctx.Err() without holding the lock if ctx ends first.
func (k *keyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{slot: make(chan struct{}, 1)}
		k.locks[key] = l
	}
	l.waiters++
	k.mu.Unlock()

	select {
	case l.slot <- struct{}{}:
	case <-ctx.Done():
		k.forget(key, l)
		return nil, ctx.Err()
	}

	return func() {
		<-l.slot
		k.forget(key, l)
	}, nil
}

func (k *keyedMutex) forget(key string, l *keyedLock) {
	k.mu.Lock()
	defer k.mu.Unlock()

	l.waiters--
	if l.waiters == 0 {
		delete(k.locks, key)
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
