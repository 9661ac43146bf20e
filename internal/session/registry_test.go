package session

import (
	"errors"
	"testing"
	"time"
)

type value struct {
	closed int
}

func (v *value) Close() error {
	v.closed++
	return nil
}

func TestAcquireCreatesOncePerID(t *testing.T) {
	created := 0
	r := NewRegistry(func() *value { created++; return &value{} }, time.Minute)
	now := time.Now()

	v1, id, err := r.Acquire("", now)
	if err != nil {
		t.Fatal(err)
	}
	if !ValidID(id) {
		t.Fatalf("Acquire returned invalid id %q", id)
	}
	v2, id2, _ := r.Acquire(id, now)
	if v1 != v2 || id2 != id {
		t.Fatal("second Acquire returned a different value")
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}

	_, id3, _ := r.Acquire("../../etc/passwd", now)
	if id3 == "../../etc/passwd" || !ValidID(id3) {
		t.Fatalf("malformed id kept: %q", id3)
	}
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
}

func TestGetDoesNotCreate(t *testing.T) {
	r := NewRegistry(func() *value { return &value{} }, time.Minute)
	if _, ok := r.Get(NewID(), time.Now()); ok {
		t.Fatal("Get found a value that was never acquired")
	}
	if r.Len() != 0 {
		t.Fatal("Get created an entry")
	}
}

func TestSweepClosesIdleEntries(t *testing.T) {
	r := NewRegistry(func() *value { return &value{} }, time.Minute)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	stale, staleID, _ := r.Acquire("", start)
	fresh, freshID, _ := r.Acquire("", start)
	r.Get(freshID, start.Add(50*time.Second))

	if n := r.Sweep(start.Add(90 * time.Second)); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}
	if stale.closed != 1 || fresh.closed != 0 {
		t.Fatalf("closed counts stale=%d fresh=%d", stale.closed, fresh.closed)
	}
	if _, ok := r.Get(staleID, start); ok {
		t.Fatal("stale entry still present")
	}
}

func TestCloseClosesEverything(t *testing.T) {
	r := NewRegistry(func() *value { return &value{} }, time.Minute)
	v, _, _ := r.Acquire("", time.Now())

	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if v.closed != 1 {
		t.Fatalf("closed = %d, want 1", v.closed)
	}
	if _, _, err := r.Acquire("", time.Now()); !errors.Is(err, ErrClosed) {
		t.Fatalf("Acquire() after Close error = %v", err)
	}
}
