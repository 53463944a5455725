package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"rwagate/internal/ledger"
	"rwagate/pkg/domain"
	"rwagate/pkg/platform/sentinel"
)

const (
	redisAccountPrefix = "rwagate:acct:"
	// redisMaxAttempts bounds optimistic retries when a watched key changes
	// between read and EXEC.
	redisMaxAttempts = 8
)

// RedisStore keeps each account in a hash. Calls WATCH their accounts, stage
// writes, and apply them in one MULTI/EXEC; a conflicting writer aborts the EXEC
// and the call body is evaluated again against fresh state.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(addr domain.Address) string {
	return redisAccountPrefix + addr.String()
}

func (s *RedisStore) Atomic(ctx context.Context, addrs []domain.Address, fn func(tx ledger.Tx) error) error {
	keys := make([]string, len(addrs))
	for i, a := range addrs {
		keys[i] = redisKey(a)
	}

	for attempt := 0; attempt < redisMaxAttempts; attempt++ {
		err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
			staged := ledger.NewStagedTx(func(ctx context.Context, addr domain.Address) (*ledger.Account, error) {
				return loadRedis(ctx, rtx, addr)
			})
			if err := fn(staged); err != nil {
				return err
			}
			writes := staged.Writes()
			if len(writes) == 0 {
				return nil
			}
			_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for _, w := range writes {
					pipe.HSet(ctx, redisKey(w.Account.Address),
						"owner", w.Account.Owner.String(),
						"lamports", strconv.FormatUint(w.Account.Lamports, 10),
						"data", w.Account.Data,
					)
				}
				return nil
			})
			return err
		}, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("ledger tx contention on %d accounts: %w", len(addrs), sentinel.ErrUnavailable)
}

func (s *RedisStore) Load(ctx context.Context, addr domain.Address) (*ledger.Account, error) {
	return loadRedis(ctx, s.client, addr)
}

// hashReader is satisfied by both *redis.Client and the *redis.Tx of a WATCH.
type hashReader interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

func loadRedis(ctx context.Context, c hashReader, addr domain.Address) (*ledger.Account, error) {
	fields, err := c.HGetAll(ctx, redisKey(addr)).Result()
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if len(fields) == 0 {
		return nil, sentinel.ErrNotFound
	}
	owner, err := domain.ParseAddress(fields["owner"])
	if err != nil {
		return nil, fmt.Errorf("stored owner for %s: %w", addr, err)
	}
	lamports, err := strconv.ParseUint(fields["lamports"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("stored lamports for %s: %w", addr, err)
	}
	return &ledger.Account{
		Address:  addr,
		Owner:    owner,
		Lamports: lamports,
		Data:     []byte(fields["data"]),
	}, nil
}
