// Package session keeps per-visitor state keyed by a cookie id.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Closer is implemented by anything the registry owns.
type Closer interface {
	Close() error
}

type entry[T Closer] struct {
	value    T
	lastSeen time.Time
}

// Registry hands out one value per visitor and closes values that have been
// idle longer than the configured timeout.
type Registry[T Closer] struct {
	newValue func() T
	idle     time.Duration

	mu      sync.Mutex
	entries map[string]*entry[T]
	closed  bool
}

var ErrClosed = errors.New("session: registry closed")

func NewRegistry[T Closer](newValue func() T, idle time.Duration) *Registry[T] {
	return &Registry[T]{
		newValue: newValue,
		idle:     idle,
		entries:  make(map[string]*entry[T]),
	}
}

// NewID returns a fresh random visitor id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one NewID produced.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Acquire returns the value for id, creating it when missing. Malformed ids
// are replaced by a new one; the id actually used is returned.
func (r *Registry[T]) Acquire(id string, now time.Time) (T, string, error) {
	if !ValidID(id) {
		id = NewID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		var zero T
		return zero, "", ErrClosed
	}

	e, ok := r.entries[id]
	if !ok {
		e = &entry[T]{value: r.newValue()}
		r.entries[id] = e
	}
	e.lastSeen = now
	return e.value, id, nil
}

// Get returns the value for id without creating one.
func (r *Registry[T]) Get(id string, now time.Time) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		var zero T
		return zero, false
	}
	e.lastSeen = now
	return e.value, true
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep closes and forgets entries idle since before now minus the timeout.
func (r *Registry[T]) Sweep(now time.Time) int {
	r.mu.Lock()
	var expired []T
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.idle {
			expired = append(expired, e.value)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, v := range expired {
		_ = v.Close()
	}
	return len(expired)
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry[T]) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(evicted int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.Sweep(now); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

// Close closes every entry. Later Acquire calls fail with ErrClosed.
func (r *Registry[T]) Close() error {
	r.mu.Lock()
	r.closed = true
	entries := r.entries
	r.entries = make(map[string]*entry[T])
	r.mu.Unlock()

	var errs []error
	for _, e := range entries {
		if err := e.value.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
