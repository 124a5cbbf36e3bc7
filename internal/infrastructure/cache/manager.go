package cache

import (
	"context"
	"sync"
	"time"

	"pantrify/internal/infrastructure/config"
	"pantrify/internal/pkg/common"

	"go.uber.org/zap"
)

// CacheManager 程序內緩存管理器
type CacheManager struct {
	maxSize int
	ttl     time.Duration
	mu      sync.Mutex
	store   map[string]cacheEntry
	stats   cacheStats
	done    chan struct{}
	once    sync.Once
}

// cacheEntry 緩存條目
type cacheEntry struct {
	value       string
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

// NewManager 創建新的緩存管理器
func NewManager(cfg *config.Config) *CacheManager {
	m := &CacheManager{
		maxSize: cfg.Cache.MaxSize,
		ttl:     cfg.Cache.TTL,
		store:   make(map[string]cacheEntry),
		done:    make(chan struct{}),
	}

	// 啟動清理過期緩存的協程
	go m.startCleanup(cfg.Cache.CleanupInterval)

	common.LogInfo("快取管理員已初始化",
		zap.Int("最大容量", cfg.Cache.MaxSize),
		zap.Duration("存活時間", cfg.Cache.TTL),
		zap.Duration("清理間隔", cfg.Cache.CleanupInterval),
	)

	return m
}

// Get 獲取緩存值
func (m *CacheManager) Get(ctx context.Context, namespace, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := entryKey(namespace, key)
	entry, exists := m.store[k]
	if !exists {
		m.stats.misses++
		common.LogCacheMiss(namespace)
		return "", common.ErrCacheMiss
	}

	if time.Now().After(entry.expiresAt) {
		delete(m.store, k)
		m.stats.evictions++
		m.stats.misses++
		common.LogCacheMiss(namespace)
		return "", common.ErrCacheMiss
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	m.store[k] = entry
	m.stats.hits++

	common.LogCacheHit(namespace)
	return entry.value, nil
}

// Set 設置緩存值
func (m *CacheManager) Set(ctx context.Context, namespace, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.ttl
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	k := entryKey(namespace, key)
	if _, exists := m.store[k]; !exists && len(m.store) >= m.maxSize {
		// 先清理過期項目
		m.cleanup()

		// 仍然超過大小限制，執行 LRU 清理
		if len(m.store) >= m.maxSize {
			m.evictLRU()
		}

		if len(m.store) >= m.maxSize {
			m.stats.errors++
			common.LogWarn("快取已滿", zap.Int("目前容量", len(m.store)))
			return common.ErrCacheFull
		}
	}

	now := time.Now()
	m.store[k] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(ttl),
		lastAccess: now,
	}
	return nil
}

// startCleanup 定期清理過期緩存
func (m *CacheManager) startCleanup(interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup()
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

// cleanup 清理過期的緩存，呼叫前需持有鎖
func (m *CacheManager) cleanup() int {
	now := time.Now()
	count := 0

	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}

	if count > 0 {
		common.LogDebug("Cleaned up expired cache entries",
			zap.Int("count", count),
			zap.Int("remaining_size", len(m.store)),
		)
	}

	return count
}

// evictLRU 淘汰最少使用的項目，呼叫前需持有鎖
func (m *CacheManager) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
		common.LogDebug("快取已淘汰(LRU)", zap.String("鍵", oldestKey))
	}
}

// Stats 獲取緩存統計信息
func (m *CacheManager) Stats() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	ratio := 0.0
	if total := m.stats.hits + m.stats.misses; total > 0 {
		ratio = float64(m.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"backend":   "memory",
		"size":      len(m.store),
		"max_size":  m.maxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"errors":    m.stats.errors,
		"hit_ratio": ratio,
	}
}

// Close 關閉緩存管理器
func (m *CacheManager) Close() error {
	m.once.Do(func() { close(m.done) })

	m.mu.Lock()
	defer m.mu.Unlock()

	m.store = make(map[string]cacheEntry)
	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
		zap.Int64("淘汰次數", m.stats.evictions),
	)
	return nil
}
