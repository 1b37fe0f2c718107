package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/confshop/payment-api/internal/usecase"
)

// RedisClaimStore is the fast-path fulfillment guard: an atomic SETNX
// on the txn id. The TTL only bounds key growth; the durable ledger is
// the guard of record.
type RedisClaimStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisClaimStore(rdb *redis.Client, ttl time.Duration) *RedisClaimStore {
	return &RedisClaimStore{rdb: rdb, ttl: ttl}
}

func (s *RedisClaimStore) TryClaim(ctx context.Context, txnID string) (bool, error) {
	return s.rdb.SetNX(ctx, "claim:txn:"+txnID, "1", s.ttl).Result()
}

func (s *RedisClaimStore) Release(ctx context.Context, txnID string) error {
	return s.rdb.Del(ctx, "claim:txn:"+txnID).Err()
}

var _ usecase.ClaimStore = (*RedisClaimStore)(nil)
