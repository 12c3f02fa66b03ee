package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/recipe-backend/internal/pkg/logger"
)

// RevocationStore records revoked token ids until the token would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Close() error
}

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type revocationStore struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
}

func NewRevocationStore(log *logger.Logger, opts Options) (RevocationStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRevocationStoreWithClient(log, rdb, opts.Prefix), nil
}

// NewRevocationStoreWithClient wraps an existing client.
func NewRevocationStoreWithClient(log *logger.Logger, rdb goredis.UniversalClient, prefix string) RevocationStore {
	if prefix == "" {
		prefix = "recipe:revoked:"
	}
	return &revocationStore{
		log:    log.With("service", "RedisRevocationStore"),
		rdb:    rdb,
		prefix: prefix,
	}
}

func (s *revocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return nil
	}
	if ttl <= 0 {
		// Already expired; nothing left to revoke.
		return nil
	}
	if err := s.rdb.Set(ctx, s.prefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set revocation: %w", err)
	}
	return nil
}

func (s *revocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := s.rdb.Exists(ctx, s.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists revocation: %w", err)
	}
	return n > 0, nil
}

func (s *revocationStore) Close() error {
	return s.rdb.Close()
}
