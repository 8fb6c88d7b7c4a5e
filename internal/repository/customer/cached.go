package customer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"retail-customers/internal/domain"
)

const cacheKeyPrefix = "customers:"

// ErrCacheInvalidation is returned by Update and DeleteByID when the store
// write succeeded but the cached entry could not be invalidated.
var ErrCacheInvalidation = errors.New("cache invalidation failed")

var errGenerationMoved = errors.New("cache generation moved")

type cachedRepo struct {
	inner  Repository
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	pending map[int64]struct{}
}

// NewCached wraps inner with a Redis read-through cache for FindByID.
//
// Every id has a generation counter next to its entry. Update and DeleteByID
// bump the generation and drop the entry after writing to inner, and a read only
// fills the cache if the generation it saw before reading inner is still
// current, so a read racing a write cannot put the old row back. Redis failures
// on the read path fall through to inner. A failed invalidation after a
// successful write is returned as ErrCacheInvalidation, and this process skips
// the cache for that id until an invalidation succeeds.
func NewCached(inner Repository, rdb redis.UniversalClient, ttl time.Duration, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedRepo{
		inner:   inner,
		rdb:     rdb,
		ttl:     ttl,
		logger:  logger.Named("customer.cache"),
		pending: make(map[int64]struct{}),
	}
}

func cacheKey(id int64) string {
	return cacheKeyPrefix + strconv.FormatInt(id, 10)
}

func generationKey(id int64) string {
	return cacheKey(id) + ":gen"
}

func (r *cachedRepo) Save(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	return r.inner.Save(ctx, c)
}

func (r *cachedRepo) FindByID(ctx context.Context, id int64) (*domain.Customer, bool, error) {
	if !r.settle(ctx, id) {
		return r.inner.FindByID(ctx, id)
	}

	gen, hit, usable := r.lookup(ctx, id)
	if hit != nil {
		return hit, true, nil
	}

	c, ok, err := r.inner.FindByID(ctx, id)
	if err != nil || !ok {
		return c, ok, err
	}
	if usable {
		r.populate(ctx, *c, gen)
	}
	return c, true, nil
}

func (r *cachedRepo) FindAll(ctx context.Context) ([]domain.Customer, error) {
	return r.inner.FindAll(ctx)
}

func (r *cachedRepo) DeleteByID(ctx context.Context, id int64) (bool, error) {
	deleted, err := r.inner.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}
	if err := r.afterWrite(ctx, id, deleted); err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *cachedRepo) Update(ctx context.Context, c domain.Customer) (*domain.Customer, bool, error) {
	updated, ok, err := r.inner.Update(ctx, c)
	if err != nil {
		return nil, false, err
	}
	if c.ID != nil {
		if err := r.afterWrite(ctx, *c.ID, ok); err != nil {
			return nil, false, err
		}
	}
	return updated, ok, nil
}

// Ping checks the wrapped store and Redis.
func (r *cachedRepo) Ping(ctx context.Context) error {
	if p, ok := r.inner.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return err
		}
	}
	return r.rdb.Ping(ctx).Err()
}

// lookup reads the entry and its generation in one round trip. usable is false
// when Redis failed or held a bad entry; the caller must not fill the cache then.
func (r *cachedRepo) lookup(ctx context.Context, id int64) (gen string, hit *domain.Customer, usable bool) {
	vals, err := r.rdb.MGet(ctx, cacheKey(id), generationKey(id)).Result()
	if err != nil {
		r.logger.Warn("cache read failed", zap.Int64("id", id), zap.Error(err))
		return "", nil, false
	}
	gen, _ = vals[1].(string)
	raw, present := vals[0].(string)
	if !present {
		return gen, nil, true
	}

	var c domain.Customer
	if jerr := json.Unmarshal([]byte(raw), &c); jerr == nil && c.ID != nil && *c.ID == id {
		return gen, &c, true
	}
	r.logger.Warn("discarding undecodable cache entry", zap.Int64("id", id))
	if err := r.invalidate(ctx, id); err != nil {
		r.markPending(id)
		r.logger.Warn("cache invalidation failed", zap.Int64("id", id), zap.Error(err))
	}
	return "", nil, false
}

// populate stores c only while the generation still equals gen.
func (r *cachedRepo) populate(ctx context.Context, c domain.Customer, gen string) {
	if c.ID == nil {
		return
	}
	id := *c.ID
	raw, err := json.Marshal(c)
	if err != nil {
		r.logger.Warn("encode cache entry", zap.Int64("id", id), zap.Error(err))
		return
	}

	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey(id)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errGenerationMoved
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, cacheKey(id), raw, r.ttl)
			return nil
		})
		return err
	}, generationKey(id))

	switch {
	case err == nil:
	case errors.Is(err, errGenerationMoved), errors.Is(err, redis.TxFailedErr):
		r.logger.Debug("skipping cache fill, entry changed during read", zap.Int64("id", id))
	default:
		r.logger.Warn("cache write failed", zap.Int64("id", id), zap.Error(err))
	}
}

// invalidate bumps the generation and drops the entry atomically.
func (r *cachedRepo) invalidate(ctx context.Context, id int64) error {
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, generationKey(id))
		if r.ttl > 0 {
			p.Expire(ctx, generationKey(id), 2*r.ttl)
		}
		p.Del(ctx, cacheKey(id))
		return nil
	})
	return err
}

func (r *cachedRepo) afterWrite(ctx context.Context, id int64, changed bool) error {
	err := r.invalidate(ctx, id)
	if err == nil {
		return nil
	}
	r.markPending(id)
	r.logger.Warn("cache invalidation failed", zap.Int64("id", id), zap.Bool("changed", changed), zap.Error(err))
	if !changed {
		return nil
	}
	return fmt.Errorf("%w for customer %d: %w", ErrCacheInvalidation, id, err)
}

// settle reports whether the cache may be used for id, retrying any
// invalidation that failed earlier.
func (r *cachedRepo) settle(ctx context.Context, id int64) bool {
	r.mu.Lock()
	_, waiting := r.pending[id]
	r.mu.Unlock()
	if !waiting {
		return true
	}
	if err := r.invalidate(ctx, id); err != nil {
		return false
	}
	r.mu.Lock()
	delete(r.pending, id)
	r.mu.Unlock()
	return true
}

func (r *cachedRepo) markPending(id int64) {
	r.mu.Lock()
	r.pending[id] = struct{}{}
	r.mu.Unlock()
}
