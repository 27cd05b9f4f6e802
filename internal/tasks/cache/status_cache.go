// Package cache keeps per-owner task status counts in Redis.
package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tsirionantsoa/taskhub/internal/platform/logging"
)

// taskstats:owner:{id} is a hash status -> count; taskstats:owner:{id}:gen counts invalidations.
const ownerKeyPrefix = "taskstats:owner:"

// NoGeneration is returned by Get when the generation could not be read. Set ignores it.
const NoGeneration int64 = -1

var errStaleGeneration = errors.New("taskstats: generation moved")

// StatusCache is safe to use as a nil pointer; every call is then a miss or a no-op.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatusCache(client *redis.Client, ttl time.Duration) *StatusCache {
	return &StatusCache{client: client, ttl: ttl}
}

func ownerKey(ownerID int64) string {
	return ownerKeyPrefix + strconv.FormatInt(ownerID, 10)
}

func genKey(ownerID int64) string {
	return ownerKey(ownerID) + ":gen"
}

// Get returns the cached count for status along with the owner's current generation.
// On a miss the generation must be handed back to Set. Failures are logged and reported as a miss.
func (c *StatusCache) Get(ctx context.Context, ownerID int64, status string) (int64, int64, bool) {
	if c == nil || c.client == nil {
		return 0, NoGeneration, false
	}

	pipe := c.client.Pipeline()
	genCmd := pipe.Get(ctx, genKey(ownerID))
	countCmd := pipe.HGet(ctx, ownerKey(ownerID), status)
	_, _ = pipe.Exec(ctx)

	gen, err := genCmd.Int64()
	if errors.Is(err, redis.Nil) {
		gen, err = 0, nil
	}
	if err != nil {
		logging.NewLogger(ctx).LogWarnf("taskstats.get", "owner=%d status=%q error=%v", ownerID, status, err)
		return 0, NoGeneration, false
	}

	n, err := countCmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, gen, false
	}
	if err != nil {
		logging.NewLogger(ctx).LogWarnf("taskstats.get", "owner=%d status=%q error=%v", ownerID, status, err)
		return 0, gen, false
	}
	return n, gen, true
}

// Set stores a count read under generation gen and refreshes the owner's TTL.
// Nothing is written when the owner was invalidated since gen was read.
func (c *StatusCache) Set(ctx context.Context, ownerID, gen int64, status string, n int64) {
	if c == nil || c.client == nil || gen == NoGeneration {
		return
	}

	key, gk := ownerKey(ownerID), genKey(ownerID)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, status, n)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, gk)

	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		logging.NewLogger(ctx).LogInfof("taskstats.set", "owner=%d status=%q skipped: invalidated", ownerID, status)
	default:
		logging.NewLogger(ctx).LogWarnf("taskstats.set", "owner=%d status=%q error=%v", ownerID, status, err)
	}
}

// InvalidateOwner drops every cached count for ownerID and bumps its generation.
func (c *StatusCache) InvalidateOwner(ctx context.Context, ownerID int64) {
	if c == nil || c.client == nil {
		return
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey(ownerID))
		pipe.Del(ctx, ownerKey(ownerID))
		return nil
	})
	if err != nil {
		logging.NewLogger(ctx).LogWarnf("taskstats.invalidate", "owner=%d error=%v", ownerID, err)
	}
}
