package services

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// userLocks serializes point mutations per user. Two concurrent awards for
// the same user must not both read the pre-update state, or the daily cap
// can be overshot and totals lost.
type userLocks struct {
	mu    sync.Mutex
	locks map[primitive.ObjectID]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[primitive.ObjectID]*sync.Mutex)}
}

func (l *userLocks) lock(id primitive.ObjectID) *sync.Mutex {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m
}
