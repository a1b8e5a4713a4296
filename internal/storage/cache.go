package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Yashgade08/Hackathon-project/internal/pipeline"
)

// Cache 按 (category, limit) 缓存分析结果，带 TTL。
// L1 是互斥锁保护的进程内 map；配置了 Redis 时再加一层 L2，
// 多实例部署可以共享预热结果。缓存整层都是可省略的优化，不影响正确性
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry

	redis *redis.Client
	ttl   time.Duration
	now   func() time.Time
}

type cacheEntry struct {
	payload  pipeline.Response
	storedAt time.Time
}

func NewCache(redisAddr string, ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}

	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("warn: redis ping failed, falling back to memory cache only: %v", err)
		} else {
			c.redis = rdb
		}
	}
	return c
}

func cacheKey(category string, limit int) string {
	return fmt.Sprintf("analysis:%s:%d", category, limit)
}

// Get 返回未过期的缓存结果。L1 未命中时查 L2 并回填 L1
func (c *Cache) Get(category string, limit int) (pipeline.Response, bool) {
	key := cacheKey(category, limit)

	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && c.now().Sub(entry.storedAt) <= c.ttl {
		c.mu.Unlock()
		return entry.payload, true
	}
	c.mu.Unlock()

	if c.redis == nil {
		return pipeline.Response{}, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	bs, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return pipeline.Response{}, false
	}
	var cached pipeline.Response
	if err := json.Unmarshal(bs, &cached); err != nil {
		return pipeline.Response{}, false
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{payload: cached, storedAt: c.now()}
	c.mu.Unlock()
	return cached, true
}

// Set 写入两层缓存；Redis 侧依赖短 TTL 自然过期，不做通配删除
func (c *Cache) Set(category string, limit int, payload pipeline.Response) {
	key := cacheKey(category, limit)

	c.mu.Lock()
	c.entries[key] = cacheEntry{payload: payload, storedAt: c.now()}
	c.mu.Unlock()

	if c.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if bs, err := json.Marshal(payload); err == nil {
		if err := c.redis.Set(ctx, key, bs, c.ttl).Err(); err != nil {
			log.Printf("warn: redis set %s: %v", key, err)
		}
	}
}
