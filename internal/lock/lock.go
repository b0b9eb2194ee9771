// Package lock keeps two runs of the same job from overlapping.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLocked is returned when another run holds the lock.
var ErrLocked = errors.New("job is already running")

// Release frees a held lock. It is safe to call more than once.
type Release func()

type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (Release, error)
}

// Memory is an in-process Locker for single-instance deployments.
type Memory struct {
	mu   sync.Mutex
	held map[string]time.Time
}

func NewMemory() *Memory {
	return &Memory{held: map[string]time.Time{}}
}

func (m *Memory) Acquire(_ context.Context, name string, ttl time.Duration) (Release, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if expires, ok := m.held[name]; ok && now.Before(expires) {
		return nil, ErrLocked
	}

	expires := now.Add(ttl)
	m.held[name] = expires

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			// a newer holder may own the name after our ttl expired
			if m.held[name].Equal(expires) {
				delete(m.held, name)
			}
		})
	}, nil
}
