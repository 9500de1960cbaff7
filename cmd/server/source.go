package main

import (
	"context"
	"errors"
	"fmt"

	"bigfive/internal/cache"
	"bigfive/internal/config"
	"bigfive/internal/repository"
	"bigfive/internal/schema"
	"bigfive/web"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// buildSource picks the schema transport named by the config. When a redis
// cache is available every remote source is fronted by it.
func buildSource(cfg *config.Config, db *mongo.Database, schemaCache cache.SchemaCache, logger *zap.Logger) (schema.Source, error) {
	var src schema.Source

	switch cfg.Schema.Source {
	case config.SourceEmbedded:
		return schema.BytesSource(web.Questions), nil
	case config.SourceFile:
		src = schema.FileSource{Path: cfg.Schema.Path}
	case config.SourceHTTP:
		src = schema.NewHTTPSource(cfg.Schema.URL, cfg.Schema.HTTPTimeout)
	case config.SourceMongo:
		if db == nil {
			return nil, errors.New("mongo source without a database")
		}
		src = mongoSource(repository.NewSchemaRepo(db), cfg.Schema.Name)
	case config.SourceRedis:
		if schemaCache == nil {
			return nil, errors.New("redis source without a redis client")
		}
		return redisSource(schemaCache, cfg.Schema.Name), nil
	default:
		return nil, fmt.Errorf("unknown schema source %q", cfg.Schema.Source)
	}

	if schemaCache != nil {
		src = schema.NewCachedSource(src, schemaCache, cfg.Schema.Name, logger)
	}
	return src, nil
}

func mongoSource(repo repository.SchemaRepo, name string) schema.Source {
	return schema.SourceFunc(func(ctx context.Context) ([]byte, error) {
		payload, err := repo.GetPayload(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", schema.ErrSchemaUnavailable, err)
		}
		return payload, nil
	})
}

func redisSource(c cache.SchemaCache, name string) schema.Source {
	return schema.SourceFunc(func(ctx context.Context) ([]byte, error) {
		payload, err := c.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", schema.ErrSchemaUnavailable, err)
		}
		if payload == nil {
			return nil, fmt.Errorf("%w: no schema stored under %q", schema.ErrSchemaUnavailable, name)
		}
		return payload, nil
	})
}
