package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	codeKeyPrefix = "waitlist:otp:"
	missKeySuffix = ":misses"
)

type redisVerificationRepo struct {
	rdb *redis.Client
}

// NewRedisVerificationRepo stores codes in Redis and lets key expiry enforce the TTL
func NewRedisVerificationRepo(rdb *redis.Client) VerificationRepository {
	return &redisVerificationRepo{rdb: rdb}
}

func (r *redisVerificationRepo) Save(ctx context.Context, key string, code string, duration time.Duration) error {
	return r.rdb.Set(ctx, codeKeyPrefix+key, code, duration).Err()
}

// Get cannot tell an expired key from one that never existed; both are ErrCodeNotFound
func (r *redisVerificationRepo) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.Get(ctx, codeKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// RecordMiss keeps the counter next to the code and lets it expire with it
func (r *redisVerificationRepo) RecordMiss(ctx context.Context, key string) (int, error) {
	codeKey := codeKeyPrefix + key
	missKey := codeKey + missKeySuffix

	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, missKey)
	ttl := pipe.PTTL(ctx, codeKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	if ttl.Val() <= 0 {
		r.rdb.Del(ctx, missKey)
		return 0, ErrCodeNotFound
	}
	if err := r.rdb.PExpire(ctx, missKey, ttl.Val()).Err(); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (r *redisVerificationRepo) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, codeKeyPrefix+key, codeKeyPrefix+key+missKeySuffix).Err()
}
