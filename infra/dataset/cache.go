package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/infra/logger"
)

// Cache stores raw encoded snapshots for a short time.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// CachedSource serves snapshots from Cache and falls back to the wrapped
// Source on a miss. Cache failures are logged and bypassed.
type CachedSource struct {
	Source Source
	Cache  Cache
	TTL    time.Duration
	Log    logger.Logger
}

func (c *CachedSource) Name() string { return c.Source.Name() + "+cache" }

// Load returns the cached snapshot for the team set or fetches a fresh one.
func (c *CachedSource) Load(ctx context.Context, teams []model.TeamID) (model.Dataset, error) {
	log := logger.OrNop(c.Log)
	key := cacheKey(c.Source.Name(), teams)
	if raw, ok, err := c.Cache.Get(ctx, key); err != nil {
		log.Warnf("dataset cache get %s: %v", key, err)
	} else if ok {
		ds, derr := Decode(bytes.NewReader(raw))
		if derr == nil {
			log.Debugf("dataset cache hit %s", key)
			return ds, nil
		}
		log.Warnf("dataset cache entry %s unreadable: %v", key, derr)
	}

	ds, err := c.Source.Load(ctx, teams)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, ds); err != nil {
		log.Warnf("dataset cache encode %s: %v", key, err)
		return ds, nil
	}
	if err := c.Cache.Set(ctx, key, buf.Bytes(), c.TTL); err != nil {
		log.Warnf("dataset cache set %s: %v", key, err)
	}
	return ds, nil
}

func cacheKey(source string, teams []model.TeamID) string {
	ids := make([]string, len(teams))
	for i, t := range teams {
		ids[i] = string(t)
	}
	sort.Strings(ids)
	if len(ids) == 0 {
		ids = []string{"*"}
	}
	return fmt.Sprintf("matchcast:dataset:%s:%s", source, strings.Join(ids, ","))
}

// RedisCache implements Cache on a Redis server.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects lazily to addr.
func NewRedisCache(addr, password string, db int) *RedisCache {
	return &RedisCache{client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})}
}

// Ping checks the server is reachable.
func (r *RedisCache) Ping(ctx context.Context) error { return r.client.Ping(ctx).Err() }

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, val, ttl).Err()
}

// Close releases the client.
func (r *RedisCache) Close() error { return r.client.Close() }
