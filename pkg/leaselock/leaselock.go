// Package leaselock implements expiring locks in the app_locks table. A
// worker holds a lease on a document while extracting it so that a
// redelivered message does not run the same document twice.
package leaselock

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cltl/micro-portraits/internal/util"
	"github.com/cltl/micro-portraits/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrBusy = errors.New("lease lock busy")
	ErrLost = errors.New("lease lock lost")
)

const (
	defaultTTL          = 5 * time.Minute
	defaultWaitInterval = 250 * time.Millisecond
	renewAttempts       = 3
)

type dbConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Client struct {
	db dbConn
}

// Options configure a lease. Zero values select a five minute TTL renewed
// at half of it, and failing fast when the lock is taken.
type Options struct {
	TTL        time.Duration
	RenewEvery time.Duration

	Wait         bool
	WaitInterval time.Duration
	WaitJitter   time.Duration

	// Owner prefixes the token, e.g. the worker name.
	Owner string
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = defaultTTL
	}
	if o.RenewEvery <= 0 || o.RenewEvery >= o.TTL {
		o.RenewEvery = max(o.TTL/2, time.Second)
	}
	if o.WaitInterval <= 0 {
		o.WaitInterval = defaultWaitInterval
	}
	if o.WaitJitter < 0 {
		o.WaitJitter = 0
	}
	return o
}

// Lease is a held lock. Context is cancelled when the lease is released
// or lost; context.Cause then returns ErrLost for a lost lease.
type Lease struct {
	Key   string
	Token string

	Context context.Context

	client *Client
	cancel context.CancelCauseFunc
	ttlMs  int64

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New creates a client on a pool or connection.
func New(db dbConn) *Client {
	return &Client{db: db}
}

// DocumentKey is the lock key of a document extraction.
func DocumentKey(documentID string) string {
	return "document:" + documentID
}

// WithLease runs fn while holding key. fn receives the lease context and
// should stop when it is cancelled.
func (c *Client) WithLease(ctx context.Context, key string, opts Options, fn func(ctx context.Context) error) error {
	lease, err := c.Acquire(ctx, key, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := lease.Release(context.Background()); err != nil {
			logger.Warn("[Lease] Failed to release lease", "key", key, "err", err)
		}
	}()

	if err := fn(lease.Context); err != nil {
		if errors.Is(context.Cause(lease.Context), ErrLost) {
			return errors.Join(err, ErrLost)
		}
		return err
	}
	return nil
}

// Acquire takes key, waiting for it when opts.Wait is set.
func (c *Client) Acquire(ctx context.Context, key string, opts Options) (*Lease, error) {
	if key == "" {
		return nil, errors.New("lease lock key is empty")
	}
	opts = opts.withDefaults()

	id, err := util.NewID()
	if err != nil {
		return nil, err
	}
	token := opts.Owner + id
	ttlMs := opts.TTL.Milliseconds()

	for {
		ok, err := c.tryAcquire(ctx, key, token, ttlMs)
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if !opts.Wait {
			return nil, ErrBusy
		}
		if err := sleepWithJitter(ctx, opts.WaitInterval, opts.WaitJitter); err != nil {
			return nil, err
		}
	}

	leaseCtx, cancel := context.WithCancelCause(ctx)
	l := &Lease{
		Key:     key,
		Token:   token,
		Context: leaseCtx,
		client:  c,
		cancel:  cancel,
		ttlMs:   ttlMs,
		stopCh:  make(chan struct{}),
	}
	go l.renewLoop(opts.RenewEvery)

	logger.Debug("[Lease] Acquired", "key", key, "ttl", opts.TTL)
	return l, nil
}

func (c *Client) tryAcquire(ctx context.Context, key, token string, ttlMs int64) (bool, error) {
	var returnedKey string
	err := c.db.QueryRow(ctx, tryAcquireSQL, key, token, ttlMs).Scan(&returnedKey)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return returnedKey != "", nil
}

// Release stops renewal and deletes the lock if it is still ours.
func (l *Lease) Release(ctx context.Context) error {
	l.stop(context.Canceled)
	_, err := l.client.db.Exec(ctx, releaseSQL, l.Key, l.Token)
	return err
}

func (l *Lease) stop(cause error) {
	l.stopOnce.Do(func() {
		close(l.stopCh)
		l.cancel(cause)
	})
}

func (l *Lease) renewLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-l.Context.Done():
			return
		case <-t.C:
			if err := l.renew(); err != nil {
				logger.Warn("[Lease] Lost lease", "key", l.Key, "err", err)
				l.stop(ErrLost)
				return
			}
		}
	}
}

func (l *Lease) renew() error {
	var lastErr error
	for attempt := range renewAttempts {
		if attempt > 0 {
			if err := sleepWithJitter(l.Context, 200*time.Millisecond, 0); err != nil {
				return err
			}
		}
		ctx, cancel := context.WithTimeout(l.Context, 15*time.Second)
		var returnedKey string
		err := l.client.db.QueryRow(ctx, renewSQL, l.Key, l.Token, l.ttlMs).Scan(&returnedKey)
		cancel()
		if err == nil {
			return nil
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLost
		}
		lastErr = err
	}
	return lastErr
}

func sleepWithJitter(ctx context.Context, base, jitter time.Duration) error {
	d := base
	if jitter > 0 {
		d += time.Duration(rand.Int64N(int64(jitter) + 1))
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

const tryAcquireSQL = `
INSERT INTO app_locks (lock_key, locked_by, expires_at)
VALUES ($1, $2, now() + ($3::bigint * interval '1 millisecond'))
ON CONFLICT (lock_key) DO UPDATE
SET locked_by  = EXCLUDED.locked_by,
    expires_at = EXCLUDED.expires_at
WHERE app_locks.expires_at < now()
   OR app_locks.locked_by = EXCLUDED.locked_by
RETURNING lock_key;
`

const renewSQL = `
UPDATE app_locks
SET expires_at = now() + ($3::bigint * interval '1 millisecond')
WHERE lock_key = $1 AND locked_by = $2
RETURNING lock_key;
`

const releaseSQL = `
DELETE FROM app_locks
WHERE lock_key = $1 AND locked_by = $2;
`
