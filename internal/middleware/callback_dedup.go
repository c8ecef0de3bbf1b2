package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// CallbackVerifiedKey is set on the echo context by the success handler once
// the gateway answered the verification call. Only then does the middleware
// record the transactionKey; a callback that died on a transient failure
// stays unrecorded, so the payer's refresh can still recover the payment.
const CallbackVerifiedKey = "callback_verified"

// CallbackDeduper tracks transaction keys already processed on the success
// callback, so a replayed redirect is dropped before it costs a verification
// call. The conditional settle update remains the source of truth against
// double payment; this is only the cheap first line.
type CallbackDeduper interface {
	// Seen reports whether the key was recorded. It never records.
	Seen(ctx context.Context, transactionKey string) (bool, error)
	// Mark records the key for the dedup window.
	Mark(ctx context.Context, transactionKey string) error
}

type redisCallbackDeduper struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (d *redisCallbackDeduper) Seen(ctx context.Context, transactionKey string) (bool, error) {
	n, err := d.client.Exists(ctx, d.prefix+":"+transactionKey).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *redisCallbackDeduper) Mark(ctx context.Context, transactionKey string) error {
	return d.client.Set(ctx, d.prefix+":"+transactionKey, "1", d.ttl).Err()
}

type memoryCallbackDeduper struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	ttl    time.Duration
	nextGC time.Time
}

func newMemoryCallbackDeduper(ttl time.Duration) *memoryCallbackDeduper {
	now := time.Now()
	return &memoryCallbackDeduper{
		seen:   make(map[string]time.Time),
		ttl:    ttl,
		nextGC: now.Add(ttl),
	}
}

func (d *memoryCallbackDeduper) Seen(_ context.Context, transactionKey string) (bool, error) {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.seen[transactionKey]
	return ok && exp.After(now), nil
}

func (d *memoryCallbackDeduper) Mark(_ context.Context, transactionKey string) error {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen[transactionKey] = now.Add(d.ttl)
	if now.After(d.nextGC) {
		for key, exp := range d.seen {
			if exp.Before(now) {
				delete(d.seen, key)
			}
		}
		d.nextGC = now.Add(d.ttl)
	}
	return nil
}

// NewCallbackDeduper builds a Redis deduper and falls back to in-memory on
// failure.
func NewCallbackDeduper(addr, pass string, db int, ttl time.Duration) (CallbackDeduper, error) {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if addr == "" {
		return newMemoryCallbackDeduper(ttl), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return newMemoryCallbackDeduper(ttl), err
	}

	return &redisCallbackDeduper{
		client: client,
		prefix: "moneris:txn",
		ttl:    ttl,
	}, nil
}

// CallbackDedup drops success callbacks whose transactionKey was already
// processed, redirecting the browser to the neutral destination. The key is
// recorded only after the handler flagged the context via CallbackVerifiedKey,
// i.e. after the gateway answered; a callback lost to a transient failure
// remains replayable. Requests without a transactionKey pass through; the
// handler owns that case.
func CallbackDedup(deduper CallbackDeduper, homeURL string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if deduper == nil {
				return next(c)
			}

			req := c.Request()
			transactionKey := req.PostFormValue("transactionKey")
			if transactionKey == "" {
				transactionKey = c.QueryParam("transactionKey")
			}
			if transactionKey == "" {
				return next(c)
			}

			isDuplicate, err := deduper.Seen(req.Context(), transactionKey)
			if err != nil {
				// Dedup is best effort; settlement stays idempotent without it.
				return next(c)
			}
			if isDuplicate {
				return c.Redirect(http.StatusFound, homeURL)
			}

			err = next(c)
			if verified, ok := c.Get(CallbackVerifiedKey).(bool); ok && verified {
				// Best effort again; a failed Mark just means one more
				// verification call on replay.
				_ = deduper.Mark(req.Context(), transactionKey)
			}
			return err
		}
	}
}
