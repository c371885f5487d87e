package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"klimarechner/internal/models"
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = redis.Nil

type CacheService interface {
	// Savings summary caching
	GetSummary(ctx context.Context) (models.JSONB, error)
	SetSummary(ctx context.Context, summary models.JSONB, ttl time.Duration) error
	DeleteSummary(ctx context.Context) error

	// Item caching
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	SetItem(ctx context.Context, item *models.Item, ttl time.Duration) error
	DeleteItem(ctx context.Context, id int64) error

	// Generic string operations
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis:// URLs as well as bare host:port.
	parsedAddr := addr
	if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
		parsedAddr = hostPort
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

const summaryKey = "klimarechner:savings:summary"

func (r *redisCacheService) GetSummary(ctx context.Context) (models.JSONB, error) {
	data, err := r.client.Get(ctx, summaryKey).Bytes()
	if err != nil {
		return nil, err
	}
	var summary models.JSONB
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *redisCacheService) SetSummary(ctx context.Context, summary models.JSONB, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, summaryKey, data, ttl).Err()
}

func (r *redisCacheService) DeleteSummary(ctx context.Context) error {
	return r.client.Del(ctx, summaryKey).Err()
}

func itemKey(id int64) string {
	return fmt.Sprintf("klimarechner:item:%d", id)
}

func (r *redisCacheService) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	data, err := r.client.Get(ctx, itemKey(id)).Bytes()
	if err != nil {
		return nil, err
	}
	item := &models.Item{}
	if err := json.Unmarshal(data, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *redisCacheService) SetItem(ctx context.Context, item *models.Item, ttl time.Duration) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, itemKey(item.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteItem(ctx context.Context, id int64) error {
	return r.client.Del(ctx, itemKey(id)).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
