package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestMemory_Exclusive(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	release, err := m.Acquire(ctx, "sync", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := m.Acquire(ctx, "sync", time.Minute); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if _, err := m.Acquire(ctx, "reminders", time.Minute); err != nil {
		t.Fatalf("other names must not be blocked: %v", err)
	}

	release()
	release()

	if _, err := m.Acquire(ctx, "sync", time.Minute); err != nil {
		t.Fatalf("expected lock to be free after release: %v", err)
	}
}

func TestMemory_ExpiredLockCanBeTaken(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	stale, err := m.Acquire(ctx, "sync", time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := m.Acquire(ctx, "sync", time.Minute); err != nil {
		t.Fatalf("expected expired lock to be taken: %v", err)
	}

	stale()
	if _, err := m.Acquire(ctx, "sync", time.Minute); !errors.Is(err, ErrLocked) {
		t.Fatal("stale release must not free the new holder's lock")
	}
}

func TestNew_FallsBackToMemory(t *testing.T) {
	l, err := New("", zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := l.(*Memory); !ok {
		t.Fatalf("expected *Memory, got %T", l)
	}

	if _, err := New("::not a url", zap.NewNop()); err == nil {
		t.Fatal("expected parse error")
	}
}
