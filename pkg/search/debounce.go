package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

const DefaultDelay = 300 * time.Millisecond

var (
	// ErrSuperseded is returned to a query that was replaced by a newer one
	// on the same key before its delay elapsed.
	ErrSuperseded = errors.New("search superseded by a newer query")

	// ErrBlankQuery is returned for queries that are empty after trimming.
	ErrBlankQuery = errors.New("blank search query")
)

// Debouncer delays queries per key and only lets the latest one through.
type Debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]chan struct{}
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, pending: make(map[string]chan struct{})}
}

// Wait blocks for the debounce delay. It returns the trimmed query when no
// newer query for key arrived in the meantime.
func (d *Debouncer) Wait(ctx context.Context, key, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrBlankQuery
	}

	cancel := make(chan struct{})
	d.mu.Lock()
	if prev, ok := d.pending[key]; ok {
		close(prev)
	}
	d.pending[key] = cancel
	d.mu.Unlock()

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-cancel:
		return "", ErrSuperseded
	case <-ctx.Done():
		d.release(key, cancel)
		return "", ctx.Err()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending[key] != cancel {
		return "", ErrSuperseded
	}
	delete(d.pending, key)
	return query, nil
}

func (d *Debouncer) release(key string, cancel chan struct{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending[key] == cancel {
		delete(d.pending, key)
	}
}

// Forget drops any pending query for key.
func (d *Debouncer) Forget(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if prev, ok := d.pending[key]; ok {
		close(prev)
		delete(d.pending, key)
	}
}
