package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vbonduro/urbanhomes/internal/session"
)

// sharedFetchTimeout bounds a collapsed fetch, which outlives any single
// caller's request.
const sharedFetchTimeout = 30 * time.Second

// Store holds encoded query results.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Client caches successful fetches and collapses identical in-flight fetches
// into one call.
type Client struct {
	store  Store
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger

	mu   sync.Mutex
	gens map[string]uint64 // bumped by Invalidate, per namespace
}

func NewClient(store Store, ttl time.Duration, logger *slog.Logger) *Client {
	return &Client{store: store, ttl: ttl, logger: logger, gens: map[string]uint64{}}
}

func (c *Client) generation(ns string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[ns]
}

// Fetch returns the cached value for key, or runs fn and caches its result.
// Concurrent calls with the same key share one fn call. Errors are returned
// to every waiter and never cached. A failing cache store is logged and
// bypassed.
//
// The shared call is detached from the caller: cancelling one request only
// abandons that caller's wait. Keys without a scope are fetched with no
// session, so public results never depend on who asked first.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	k := key.String()

	if data, ok, err := c.store.Get(ctx, k); err != nil {
		c.logger.Warn("query cache read failed", "key", k, "error", err)
	} else if ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		c.logger.Warn("query cache entry undecodable, refetching", "key", k)
	}

	// A fetch started before an invalidation must not be joined or stored
	// after it.
	gen := c.generation(key.Namespace)
	flightKey := k + "@" + strconv.FormatUint(gen, 10)

	callCtx := context.WithoutCancel(ctx)
	if key.Scope == "" {
		callCtx = session.Anonymous(callCtx)
	}

	ch := c.group.DoChan(flightKey, func() (any, error) {
		fctx, cancel := context.WithTimeout(callCtx, sharedFetchTimeout)
		defer cancel()

		v, err := fn(fctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode query result: %w", err)
		}
		c.save(fctx, key.Namespace, gen, k, data)
		return data, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return zero, res.Err
	}
	if res.Shared {
		c.logger.Debug("query shared in-flight result", "key", k)
	}

	// Each caller decodes its own copy so results are never aliased.
	var v T
	if err := json.Unmarshal(res.Val.([]byte), &v); err != nil {
		return zero, fmt.Errorf("decode query result: %w", err)
	}
	return v, nil
}

// save stores data unless ns was invalidated since gen was read. The check
// runs again after the write, since Invalidate may have bumped the generation
// and deleted the namespace between the two.
func (c *Client) save(ctx context.Context, ns string, gen uint64, k string, data []byte) {
	if c.generation(ns) != gen {
		return
	}
	if err := c.store.Set(ctx, k, data, c.ttl); err != nil {
		c.logger.Warn("query cache write failed", "key", k, "error", err)
		return
	}
	if c.generation(ns) != gen {
		if err := c.store.DeletePrefix(ctx, k); err != nil {
			c.logger.Warn("query cache stale entry not removed", "key", k, "error", err)
		}
	}
}

// Invalidate drops every cached entry in the given namespaces. Fetches
// already in flight for them finish but are not cached.
func (c *Client) Invalidate(ctx context.Context, namespaces ...string) {
	c.mu.Lock()
	for _, ns := range namespaces {
		c.gens[ns]++
	}
	c.mu.Unlock()

	for _, ns := range namespaces {
		if err := c.store.DeletePrefix(ctx, ns+":"); err != nil {
			c.logger.Error("query cache invalidation failed", "namespace", ns, "error", err)
		}
	}
}
