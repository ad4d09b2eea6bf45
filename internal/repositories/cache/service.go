package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLs for domain objects. Settings deliberately expire fast so admin
// updates are visible within a minute on every node.
const (
	WalletSummaryTTL = 5 * time.Minute
	SettingsTTL      = time.Minute
	// Downline counts change on every signup underneath, so the cached
	// value only smooths query bursts, never serves as a source of truth.
	DownlineCountTTL = time.Minute
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get unmarshals the cached value into dest, reporting whether the key
// was present.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key helpers

func WalletSummaryKey(memberID uint) string {
	return fmt.Sprintf("wallet:summary:%d", memberID)
}

func SettingsKey() string {
	return "mlm:settings"
}

func DownlineCountKey(memberID uint) string {
	return fmt.Sprintf("downline:count:%d", memberID)
}

// FlushAll clears the whole cache. Used on startup.
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// HealthCheck pings Redis.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Stats returns connection pool statistics.
func (s *CacheService) Stats() *redis.PoolStats {
	return s.client.PoolStats()
}

// Close closes the underlying Redis client.
func (s *CacheService) Close() error {
	return s.client.Close()
}
