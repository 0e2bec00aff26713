package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/model"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/parser"
)

// DefaultTTL 默认缓存时长
const DefaultTTL = 24 * time.Hour

// Entry 缓存内容：分析结果与读取统计
type Entry struct {
	Result model.AnalysisResult `json:"result"`
	Stats  parser.ReadStats     `json:"stats"`
}

// ResultCache 分析结果缓存；未命中返回 (nil, nil)
type ResultCache interface {
	Get(ctx context.Context, fileHash, window string) (*Entry, error)
	Set(ctx context.Context, fileHash, window string, entry *Entry) error
	Close() error
}

// Key analysis:<sha256>:<window>
func Key(fileHash, window string) string {
	return "analysis:" + fileHash + ":" + window
}

// New 按地址创建缓存；地址为空时返回 Nop
func New(ctx context.Context, redisURL string, ttl time.Duration) (ResultCache, error) {
	if strings.TrimSpace(redisURL) == "" {
		log.Println("Result cache not configured (redis url empty), caching disabled")
		return Nop{}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		opts = &redis.Options{Addr: redisURL}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect redis %s: %w", opts.Addr, err)
	}
	log.Printf("Result cache connected: %s (ttl=%s)", opts.Addr, ttl)
	return NewRedis(client, ttl), nil
}

// Redis 基于 go-redis 的实现
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis 包装已有客户端
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

// Get 读取缓存
func (c *Redis) Get(ctx context.Context, fileHash, window string) (*Entry, error) {
	raw, err := c.client.Get(ctx, Key(fileHash, window)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached analysis: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cached analysis: %w", err)
	}
	return &entry, nil
}

// Set 写入缓存
func (c *Redis) Set(ctx context.Context, fileHash, window string, entry *Entry) error {
	if entry == nil {
		return nil
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode analysis for cache: %w", err)
	}
	if err := c.client.Set(ctx, Key(fileHash, window), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cached analysis: %w", err)
	}
	return nil
}

// Close 关闭连接
func (c *Redis) Close() error {
	return c.client.Close()
}

// Nop 关闭缓存时使用
type Nop struct{}

func (Nop) Get(context.Context, string, string) (*Entry, error) { return nil, nil }

func (Nop) Set(context.Context, string, string, *Entry) error { return nil }

func (Nop) Close() error { return nil }
