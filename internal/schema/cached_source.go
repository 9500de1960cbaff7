package schema

import (
	"context"

	"go.uber.org/zap"
)

// PayloadCache stores raw schema payloads. Get returns (nil, nil) on a miss.
type PayloadCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte) error
}

// CachedSource is a read-through cache in front of another Source.
// Cache errors never fail a fetch; they are logged and bypassed.
type CachedSource struct {
	next   Source
	cache  PayloadCache
	key    string
	logger *zap.Logger
}

// NewCachedSource wraps next with cache under key
func NewCachedSource(next Source, cache PayloadCache, key string, logger *zap.Logger) *CachedSource {
	return &CachedSource{
		next:   next,
		cache:  cache,
		key:    key,
		logger: logger,
	}
}

func (s *CachedSource) Fetch(ctx context.Context) ([]byte, error) {
	cached, err := s.cache.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("schema cache read failed", zap.String("key", s.key), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	payload, err := s.next.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	// Only payloads that parse are worth caching.
	if _, perr := Parse(payload); perr == nil {
		if err := s.cache.Set(ctx, s.key, payload); err != nil {
			s.logger.Warn("schema cache write failed", zap.String("key", s.key), zap.Error(err))
		}
	}
	return payload, nil
}
