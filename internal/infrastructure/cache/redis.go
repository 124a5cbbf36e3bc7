package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"pantrify/internal/infrastructure/config"
	"pantrify/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisService Redis 緩存服務
type RedisService struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	hits   int64
	misses int64
}

// NewRedis 創建 Redis 緩存服務並測試連線
func NewRedis(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已連線", zap.String("addr", cfg.Redis.Addr))

	return newRedisService(client, cfg.Redis.Prefix, cfg.Cache.TTL), nil
}

func newRedisService(client *redis.Client, prefix string, ttl time.Duration) *RedisService {
	return &RedisService{client: client, prefix: prefix, ttl: ttl}
}

// Get 獲取緩存
func (s *RedisService) Get(ctx context.Context, namespace, key string) (string, error) {
	val, err := s.client.Get(ctx, s.generateKey(namespace, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			atomic.AddInt64(&s.misses, 1)
			common.LogCacheMiss(namespace)
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	atomic.AddInt64(&s.hits, 1)
	common.LogCacheHit(namespace)
	return val, nil
}

// Set 設置緩存
func (s *RedisService) Set(ctx context.Context, namespace, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.ttl
	}
	if err := s.client.Set(ctx, s.generateKey(namespace, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Stats 快取統計
func (s *RedisService) Stats() map[string]interface{} {
	return map[string]interface{}{
		"backend": "redis",
		"hits":    atomic.LoadInt64(&s.hits),
		"misses":  atomic.LoadInt64(&s.misses),
	}
}

// Close 關閉連線
func (s *RedisService) Close() error {
	return s.client.Close()
}

// generateKey 生成緩存鍵
func (s *RedisService) generateKey(namespace, key string) string {
	if s.prefix == "" {
		return entryKey(namespace, key)
	}
	return fmt.Sprintf("%s:%s", s.prefix, entryKey(namespace, key))
}
