package leaselock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeLocks emulates app_locks without expiry.
type fakeLocks struct {
	mu    sync.Mutex
	owner map[string]string
}

func newFakeLocks() *fakeLocks {
	return &fakeLocks{owner: make(map[string]string)}
}

type fakeRow struct {
	key string
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.key
	return nil
}

func (f *fakeLocks) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, token := args[0].(string), args[1].(string)
	owner, held := f.owner[key]

	switch sql {
	case tryAcquireSQL:
		if held && owner != token {
			return fakeRow{err: pgx.ErrNoRows}
		}
		f.owner[key] = token
		return fakeRow{key: key}
	case renewSQL:
		if !held || owner != token {
			return fakeRow{err: pgx.ErrNoRows}
		}
		return fakeRow{key: key}
	}
	return fakeRow{err: errors.New("unexpected query")}
}

func (f *fakeLocks) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sql == releaseSQL && f.owner[args[0].(string)] == args[1].(string) {
		delete(f.owner, args[0].(string))
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.NewCommandTag("DELETE 0"), nil
}

func TestAcquireRelease(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeLocks())
	key := DocumentKey("d1")

	lease, err := c.Acquire(ctx, key, Options{Owner: "w1-"})
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if _, err := c.Acquire(ctx, key, Options{}); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	if err := lease.Release(ctx); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if lease.Context.Err() == nil {
		t.Fatal("expected lease context to be cancelled after release")
	}

	again, err := c.Acquire(ctx, key, Options{})
	if err != nil {
		t.Fatalf("Acquire after release failed: %v", err)
	}
	_ = again.Release(ctx)
}

func TestAcquire_EmptyKey(t *testing.T) {
	if _, err := New(newFakeLocks()).Acquire(context.Background(), "", Options{}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestAcquire_WaitHonoursContext(t *testing.T) {
	locks := newFakeLocks()
	locks.owner["document:d1"] = "someone-else"
	c := New(locks)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Acquire(ctx, DocumentKey("d1"), Options{Wait: true, WaitInterval: 10 * time.Millisecond})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestWithLease_LostLease(t *testing.T) {
	locks := newFakeLocks()
	c := New(locks)
	key := DocumentKey("d1")

	opts := Options{TTL: 2 * time.Second, RenewEvery: 20 * time.Millisecond}
	err := c.WithLease(context.Background(), key, opts, func(ctx context.Context) error {
		locks.mu.Lock()
		locks.owner[key] = "thief"
		locks.mu.Unlock()

		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, ErrLost) {
		t.Fatalf("expected ErrLost, got %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{TTL: time.Minute, RenewEvery: 2 * time.Minute}.withDefaults()
	if o.RenewEvery != 30*time.Second {
		t.Fatalf("expected renewal at half the TTL, got %v", o.RenewEvery)
	}
	if d := (Options{}).withDefaults(); d.TTL != defaultTTL || d.WaitInterval != defaultWaitInterval {
		t.Fatalf("unexpected defaults %+v", d)
	}
}
