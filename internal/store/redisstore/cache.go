// Package redisstore caches website extraction results so re-ingesting
// the same URL skips the outbound fetch.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/botize/botize/internal/extract"
)

const websiteTTL = time.Hour

type Cache struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{rdb: rdb}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

func websiteKey(url string) string {
	return fmt.Sprintf("context:website:%s", url)
}

// GetWebsite returns the cached extraction for url, or nil on miss or any
// redis failure. A nil receiver is a permanent miss, so callers need no
// "cache configured" branch.
func (c *Cache) GetWebsite(ctx context.Context, url string) *extract.WebsiteContent {
	if c == nil {
		return nil
	}
	data, err := c.rdb.Get(ctx, websiteKey(url)).Result()
	if err != nil {
		return nil
	}
	var content extract.WebsiteContent
	if err := json.Unmarshal([]byte(data), &content); err != nil {
		return nil
	}
	return &content
}

// SetWebsite stores the extraction best effort; errors are swallowed
// since the cache is an optimization, not a source of truth.
func (c *Cache) SetWebsite(ctx context.Context, content *extract.WebsiteContent) {
	if c == nil || content == nil {
		return
	}
	data, err := json.Marshal(content)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, websiteKey(content.URL), data, websiteTTL).Err()
}
