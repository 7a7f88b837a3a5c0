package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cashcard/cashcard/internal/model"
)

// Cache key prefixes and TTLs.
const (
	cashCardKeyPrefix = "cashcard:"
	negCacheKeySuffix = ":neg"
	versionKeySuffix  = ":ver"

	// DefaultCashCardTTL is the TTL for cached cash card data.
	DefaultCashCardTTL = 10 * time.Minute

	// NegativeCacheTTL is the TTL for negative cache entries.
	NegativeCacheTTL = time.Minute

	// versionTTL must outlive any in-flight read between CashCardVersion
	// and the matching backfill.
	versionTTL = 24 * time.Hour
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")

	// ErrStaleVersion means the card was written or deleted after the
	// caller read its version, so the backfill was skipped.
	ErrStaleVersion = errors.New("cache version changed")
)

// GetCashCard retrieves a cash card from cache by ID.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetCashCard(ctx context.Context, id int64) (*model.CashCard, error) {
	key := cashCardKey(id)

	var cached model.CachedCashCard
	res := c.client.HGetAll(ctx, key)
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}
	if len(res.Val()) == 0 {
		return nil, ErrCacheMiss
	}
	if err := res.Scan(&cached); err != nil {
		return nil, fmt.Errorf("failed to decode cached cash card: %w", err)
	}

	card, err := cached.ToCashCard(id)
	if err != nil {
		// Corrupt entry: drop it and treat as a miss.
		c.client.Del(ctx, key)
		return nil, ErrCacheMiss
	}

	return card, nil
}

// CashCardVersion returns the invalidation counter for an ID. It is zero
// until the first DeleteCashCard for that ID.
func (c *Cache) CashCardVersion(ctx context.Context, id int64) (int64, error) {
	return readVersion(ctx, c.client, cashCardKey(id)+versionKeySuffix)
}

// SetCashCard stores a cash card and clears any negative entry, but only
// if the ID's version still equals version. Otherwise it returns
// ErrStaleVersion and leaves the cache untouched.
func (c *Cache) SetCashCard(ctx context.Context, card *model.CashCard, version int64) error {
	key := cashCardKey(card.ID)

	err := c.writeIfVersion(ctx, key+versionKeySuffix, version, func(pipe redis.Pipeliner) {
		pipe.HSet(ctx, key, card.ToCachedCashCard())
		pipe.Expire(ctx, key, c.cardTTL)
		pipe.Del(ctx, key+negCacheKeySuffix)
	})
	if err != nil && !errors.Is(err, ErrStaleVersion) {
		return fmt.Errorf("failed to cache cash card: %w", err)
	}
	return err
}

// DeleteCashCard removes a cash card and its negative entry from cache and
// bumps the ID's version so in-flight backfills are dropped.
func (c *Cache) DeleteCashCard(ctx context.Context, id int64) error {
	key := cashCardKey(id)

	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, key+versionKeySuffix)
	pipe.Expire(ctx, key+versionKeySuffix, versionTTL)
	pipe.Del(ctx, key, key+negCacheKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete cash card from cache: %w", err)
	}

	return nil
}

// IsNegativelyCached checks if an ID is in negative cache.
func (c *Cache) IsNegativelyCached(ctx context.Context, id int64) (bool, error) {
	key := cashCardKey(id) + negCacheKeySuffix

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check negative cache: %w", err)
	}

	return exists > 0, nil
}

// SetNegativeCache marks an ID as not found, guarded by version the same
// way as SetCashCard.
func (c *Cache) SetNegativeCache(ctx context.Context, id int64, version int64) error {
	key := cashCardKey(id)

	err := c.writeIfVersion(ctx, key+versionKeySuffix, version, func(pipe redis.Pipeliner) {
		pipe.SetEx(ctx, key+negCacheKeySuffix, "", c.negativeTTL)
	})
	if err != nil && !errors.Is(err, ErrStaleVersion) {
		return fmt.Errorf("failed to set negative cache: %w", err)
	}
	return err
}

// writeIfVersion runs write in a MULTI block while WATCHing versionKey.
// A concurrent DeleteCashCard either changes the version before the check
// or aborts the transaction.
func (c *Cache) writeIfVersion(ctx context.Context, versionKey string, version int64, write func(redis.Pipeliner)) error {
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, versionKey)
		if err != nil {
			return err
		}
		if current != version {
			return ErrStaleVersion
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			write(pipe)
			return nil
		})
		return err
	}, versionKey)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrStaleVersion
	}
	return err
}

// stringGetter is satisfied by both *redis.Client and *redis.Tx.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, cmd stringGetter, key string) (int64, error) {
	v, err := cmd.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache version: %w", err)
	}
	return v, nil
}

func cashCardKey(id int64) string {
	return cashCardKeyPrefix + strconv.FormatInt(id, 10)
}
