package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SchemaCache handles Redis operations for raw schema payloads
type SchemaCache interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Set(ctx context.Context, name string, payload []byte) error
	Delete(ctx context.Context, name string) error
}

type schemaCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSchemaCache creates a new schema cache. A zero ttl keeps entries forever.
func NewSchemaCache(client *redis.Client, ttl time.Duration) SchemaCache {
	return &schemaCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *schemaCache) key(name string) string {
	return fmt.Sprintf("schema:%s", name)
}

// Get returns (nil, nil) on a miss
func (c *schemaCache) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.key(name)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *schemaCache) Set(ctx context.Context, name string, payload []byte) error {
	return c.client.Set(ctx, c.key(name), payload, c.ttl).Err()
}

func (c *schemaCache) Delete(ctx context.Context, name string) error {
	return c.client.Del(ctx, c.key(name)).Err()
}
