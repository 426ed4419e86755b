package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/alem-hub/mentorship-engine/internal/domain/mentorship"
	"github.com/alem-hub/mentorship-engine/internal/infrastructure/metrics"
	"github.com/alem-hub/mentorship-engine/pkg/logger"
	"github.com/alem-hub/mentorship-engine/pkg/retry"
)

// KV is the subset of Cache used by InterestCache.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	MGet(ctx context.Context, keys ...string) (map[string]string, error)
	MSet(ctx context.Context, pairs map[string]any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Source is the store behind the cache.
type Source interface {
	mentorship.InterestSetProvider
	mentorship.InterestWriter
}

// Cache lookup results reported to metrics.
const (
	lookupHit    = "hit"
	lookupMiss   = "miss"
	lookupBypass = "bypass"
)

// InterestCacheOptions configures InterestCache.
type InterestCacheOptions struct {
	TTL time.Duration
	// FailureThreshold consecutive cache errors open the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
	Logger      *logger.Logger
}

// InterestCache is a read-through cache of per-user interest sets. A failed
// round trip is retried once; when Redis keeps failing the breaker opens and
// reads go straight to the source. Cache errors never fail a read.
type InterestCache struct {
	source  Source
	kv      KV
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[struct{}]
	retrier *retry.Retrier
	log     *logger.Logger
}

// NewInterestCache wraps source with kv.
func NewInterestCache(source Source, kv KV, opts InterestCacheOptions) *InterestCache {
	if opts.TTL <= 0 {
		opts.TTL = TTLInterestSet
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	log := opts.Logger.With(logger.Component("interest_cache"))

	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "interest-cache",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= opts.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("cache breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})

	return &InterestCache{
		source:  source,
		kv:      kv,
		ttl:     opts.TTL,
		breaker: breaker,
		retrier: retry.CacheRetrier(retry.WithRetryIf(retryableCacheError)),
		log:     log,
	}
}

// Misses, open breakers and cancelled contexts are final.
func retryableCacheError(err error) bool {
	return !errors.Is(err, ErrCacheMiss) &&
		!isBreakerRejection(err) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

func interestKey(userID mentorship.UserID) string {
	return PrefixInterests + userID.String()
}

// guard runs one round trip through the breaker.
func (c *InterestCache) guard(fn func() error) error {
	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// call runs fn through the breaker with a quick retry.
func (c *InterestCache) call(ctx context.Context, fn func(ctx context.Context) error) error {
	return c.retrier.Do(ctx, func(ctx context.Context) error {
		return c.guard(func() error { return fn(ctx) })
	})
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// GetInterests implements mentorship.InterestSetProvider.
func (c *InterestCache) GetInterests(ctx context.Context, userID mentorship.UserID) (mentorship.InterestSet, error) {
	ids, err := retry.DoWithData(ctx, c.retrier, func(ctx context.Context) ([]mentorship.InterestID, error) {
		var ids []mentorship.InterestID
		err := c.guard(func() error { return c.kv.Get(ctx, interestKey(userID), &ids) })
		return ids, err
	})
	switch {
	case err == nil:
		metrics.RecordCacheLookup(lookupHit)
		return mentorship.NewInterestSet(ids...), nil
	case errors.Is(err, ErrCacheMiss):
		metrics.RecordCacheLookup(lookupMiss)
	default:
		c.bypassed(err)
	}

	set, err := c.source.GetInterests(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, map[mentorship.UserID]mentorship.InterestSet{userID: set})
	return set, nil
}

// GetInterestSets implements mentorship.InterestSetProvider.
func (c *InterestCache) GetInterestSets(ctx context.Context, userIDs []mentorship.UserID) (map[mentorship.UserID]mentorship.InterestSet, error) {
	out := make(map[mentorship.UserID]mentorship.InterestSet, len(userIDs))
	missing := userIDs

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = interestKey(id)
	}

	var raw map[string]string
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		raw, err = c.kv.MGet(ctx, keys...)
		return err
	})
	if err != nil {
		c.bypassed(err)
	} else {
		missing = make([]mentorship.UserID, 0)
		for _, id := range userIDs {
			var ids []mentorship.InterestID
			val, ok := raw[interestKey(id)]
			if !ok || json.Unmarshal([]byte(val), &ids) != nil {
				metrics.RecordCacheLookup(lookupMiss)
				missing = append(missing, id)
				continue
			}
			metrics.RecordCacheLookup(lookupHit)
			if len(ids) > 0 {
				out[id] = mentorship.NewInterestSet(ids...)
			}
		}
	}

	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := c.source.GetInterestSets(ctx, missing)
	if err != nil {
		return nil, err
	}

	fill := make(map[mentorship.UserID]mentorship.InterestSet, len(missing))
	for _, id := range missing {
		set := loaded[id]
		fill[id] = set
		if set.Len() > 0 {
			out[id] = set
		}
	}
	c.store(ctx, fill)
	return out, nil
}

// ListInterestSets is not cached; it scans every user.
func (c *InterestCache) ListInterestSets(ctx context.Context) (map[mentorship.UserID]mentorship.InterestSet, error) {
	return c.source.ListInterestSets(ctx)
}

// InterestNames is not cached.
func (c *InterestCache) InterestNames(ctx context.Context, ids []mentorship.InterestID) (map[mentorship.InterestID]string, error) {
	return c.source.InterestNames(ctx, ids)
}

// ReplaceInterests writes through to the source and drops the cached set.
func (c *InterestCache) ReplaceInterests(ctx context.Context, userID mentorship.UserID, names []string) error {
	if err := c.source.ReplaceInterests(ctx, userID, names); err != nil {
		return err
	}
	if err := c.call(ctx, func(ctx context.Context) error { return c.kv.Delete(ctx, interestKey(userID)) }); err != nil {
		c.log.Warn("failed to invalidate cached interests", logger.UserID(userID.String()), logger.Err(err))
	}
	return nil
}

func (c *InterestCache) store(ctx context.Context, sets map[mentorship.UserID]mentorship.InterestSet) {
	if len(sets) == 0 || c.breaker.State() == gobreaker.StateOpen {
		return
	}

	pairs := make(map[string]any, len(sets))
	for id, set := range sets {
		pairs[interestKey(id)] = set.IDs()
	}
	if err := c.call(ctx, func(ctx context.Context) error { return c.kv.MSet(ctx, pairs, c.ttl) }); err != nil && !isBreakerRejection(err) {
		c.log.Debug("failed to cache interests", logger.Err(err))
	}
}

func (c *InterestCache) bypassed(err error) {
	metrics.RecordCacheLookup(lookupBypass)
	if !isBreakerRejection(err) {
		c.log.Debug("interest cache unavailable, reading source", logger.Err(err))
	}
}
