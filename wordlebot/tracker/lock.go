package tracker

import (
	"context"
	"sync"
)

// userLock hands out one mutex per user and forgets it once nobody holds or
// waits on it.
type userLock struct {
	mu    sync.Mutex
	locks map[string]*userMutex
}

type userMutex struct {
	ch   chan struct{}
	refs int
}

func newUserLock() *userLock {
	return &userLock{locks: make(map[string]*userMutex)}
}

// Lock blocks until user is free or ctx is done. The returned func releases
// the lock.
func (l *userLock) Lock(ctx context.Context, user string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[user]
	if !ok {
		m = &userMutex{ch: make(chan struct{}, 1)}
		l.locks[user] = m
	}
	m.refs++
	l.mu.Unlock()

	select {
	case m.ch <- struct{}{}:
		return func() {
			<-m.ch
			l.release(user, m)
		}, nil
	case <-ctx.Done():
		l.release(user, m)
		return nil, ctx.Err()
	}
}

func (l *userLock) release(user string, m *userMutex) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m.refs--
	if m.refs == 0 {
		delete(l.locks, user)
	}
}

func (l *userLock) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
