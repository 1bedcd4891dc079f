// Package cache guarda recomendaciones calculadas en Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/restock-api/internal/application/ports"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/pkg/config"
)

const (
	keyPrefix     = "restock:recommendations:"
	scanBatchSize = 100
	defaultTTL    = time.Minute
)

var (
	_ ports.RecommendationCache = (*RedisCache)(nil)
	_ ports.RecommendationCache = NoopCache{}
)

// RedisCache RecommendationCache sobre Redis con payload JSON y TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecommendationCache devuelve la caché Redis si está configurada, o NoopCache si no.
func NewRecommendationCache(ctx context.Context, cfg config.CacheConfig) (ports.RecommendationCache, error) {
	if !cfg.Enabled() {
		return NoopCache{}, nil
	}
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get devuelve las recomendaciones guardadas bajo key.
func (c *RedisCache) Get(ctx context.Context, key string) ([]entity.StockRecommendation, bool, error) {
	payload, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	var recs []entity.StockRecommendation
	if err := json.Unmarshal(payload, &recs); err != nil {
		return nil, false, fmt.Errorf("decode recommendations cache: %w", err)
	}
	return recs, true, nil
}

// Set guarda las recomendaciones con el TTL configurado.
func (c *RedisCache) Set(ctx context.Context, key string, recs []entity.StockRecommendation) error {
	payload, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode recommendations cache: %w", err)
	}
	if err := c.client.Set(ctx, redisKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate borra todas las claves de recomendaciones (SCAN por prefijo, sin KEYS).
func (c *RedisCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, keyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close cierra el cliente Redis.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NoopCache nunca encuentra nada.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]entity.StockRecommendation, bool, error) {
	return nil, false, nil
}
func (NoopCache) Set(context.Context, string, []entity.StockRecommendation) error { return nil }
func (NoopCache) Invalidate(context.Context) error                                { return nil }

func redisKey(key string) string {
	return keyPrefix + key
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}
	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}
