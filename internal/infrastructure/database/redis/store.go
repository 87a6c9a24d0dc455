package redis

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/EnviroLens/pkg/errors"
)

// scanBatch is the COUNT hint used when clearing the key prefix.
const scanBatch = 100

// ResultStore keeps serialized dashboard results under a key prefix.  Keys
// never expire; Clear removes every key under the prefix.
type ResultStore struct {
	client *Client
	prefix string
	logger logging.Logger
}

// NewResultStore returns a store writing keys as prefix+key.  The prefix is
// cleared immediately, so a process restart always starts from an empty
// store.  An empty prefix is rejected since clearing it would empty the
// whole database.
func NewResultStore(ctx context.Context, client *Client, prefix string, log logging.Logger) (*ResultStore, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, errors.InvalidParam("redis: result store key prefix is required")
	}
	s := &ResultStore{client: client, prefix: prefix, logger: logging.OrDefault(log).Named("redis_store")}
	if err := s.Clear(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ResultStore) fullKey(key string) string {
	return s.prefix + key
}

// Get returns the stored bytes for key.  A missing key is (nil, false, nil).
func (s *ResultStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.fullKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.CodeCacheError, "failed to get from result store").WithDetail(key)
	}
	return data, true, nil
}

// Set stores value under key without expiry.
func (s *ResultStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.fullKey(key), value, 0).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "failed to set in result store").WithDetail(key)
	}
	return nil
}

// Clear deletes every key under the store prefix.
func (s *ResultStore) Clear(ctx context.Context) error {
	var (
		cursor  uint64
		deleted int64
	)
	match := s.prefix + "*"
	for {
		keys, next, err := s.client.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return errors.Wrap(err, errors.CodeCacheError, "failed to scan result store")
		}
		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return errors.Wrap(err, errors.CodeCacheError, "failed to clear result store")
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	s.logger.Debug("Result store cleared", logging.String("prefix", s.prefix), logging.Int64("deleted", deleted))
	return nil
}

// Ping reports whether the backing server is reachable.  It serves as the
// readiness check.
func (s *ResultStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

//Personal.AI order the ending
