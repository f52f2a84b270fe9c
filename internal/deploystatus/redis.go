package deploystatus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mayankch283/Site-o-Matic/internal/domain"
)

const redisKeyPrefix = "siteomatic:deploy:"

// RedisStore keeps deployment records in Redis so multiple service instances
// observe the same state. Records expire by TTL instead of the in-memory
// store's FIFO bound.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Put stores a record under its deployment key.
func (s *RedisStore) Put(ctx context.Context, record domain.DeploymentRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+record.Key(), payload, s.ttl).Err()
}

// Get returns the record for a (project, revision) pair.
func (s *RedisStore) Get(ctx context.Context, projectID, commitSHA string) (domain.DeploymentRecord, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+domain.DeploymentKey(projectID, commitSHA)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.DeploymentRecord{}, ErrNotFound
	}
	if err != nil {
		return domain.DeploymentRecord{}, err
	}
	var record domain.DeploymentRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return domain.DeploymentRecord{}, err
	}
	return record, nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
