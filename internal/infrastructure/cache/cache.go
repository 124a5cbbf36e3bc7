package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"pantrify/internal/infrastructure/config"
	"pantrify/internal/pkg/common"
)

// Cache 以命名空間區隔的字串快取
type Cache interface {
	// Get 未命中時回傳 common.ErrCacheMiss
	Get(ctx context.Context, namespace, key string) (string, error)
	// Set ttl 為 0 時使用預設存活時間
	Set(ctx context.Context, namespace, key, value string, ttl time.Duration) error
	Stats() map[string]interface{}
	Close() error
}

// New 依設定建立快取：Redis 啟用時使用 Redis，否則使用程序內快取
func New(cfg *config.Config) (Cache, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return Noop{}, nil
	}
	if cfg.Redis.Enabled {
		return NewRedis(cfg)
	}
	return NewManager(cfg), nil
}

// Key 將任意字串正規化後雜湊成快取鍵
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(p))))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func entryKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

// Noop 停用快取時使用，永遠未命中
type Noop struct{}

func (Noop) Get(context.Context, string, string) (string, error) {
	return "", common.ErrCacheMiss
}

func (Noop) Set(context.Context, string, string, string, time.Duration) error {
	return nil
}

func (Noop) Stats() map[string]interface{} {
	return map[string]interface{}{"enabled": false}
}

func (Noop) Close() error {
	return nil
}
