package session

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps sessions in process.
type MemoryRepository struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.Mutex
	items map[string]*Session
	locks map[string]chan struct{}
}

func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]*Session),
		locks: make(map[string]chan struct{}),
	}
}

func (r *MemoryRepository) Save(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *s
	cp.ExpiresAt = r.now().Add(r.ttl)
	s.ExpiresAt = cp.ExpiresAt
	r.items[s.ID] = &cp
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.Expired(r.now()) {
		delete(r.items, id)
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// Delete drops the session and its lock unless the lock is currently held.
func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	r.dropIdleLock(id)
	return nil
}

// dropIdleLock must be called with r.mu held.
func (r *MemoryRepository) dropIdleLock(id string) {
	if sem, ok := r.locks[id]; ok && len(sem) == 0 {
		delete(r.locks, id)
	}
}

// Lock waits until the session's lock is free or ctx is done.
func (r *MemoryRepository) Lock(ctx context.Context, id string) (Unlock, error) {
	r.mu.Lock()
	sem, ok := r.locks[id]
	if !ok {
		sem = make(chan struct{}, 1)
		r.locks[id] = sem
	}
	r.mu.Unlock()

	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ErrLockNotAcquired
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-sem })
	}, nil
}

// Sweep drops expired sessions and returns how many were removed.
func (r *MemoryRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, s := range r.items {
		if s.Expired(now) {
			delete(r.items, id)
			r.dropIdleLock(id)
			removed++
		}
	}
	return removed
}
