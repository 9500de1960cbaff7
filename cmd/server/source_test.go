package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bigfive/internal/config"
	"bigfive/internal/schema"
	"bigfive/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memCache struct {
	data map[string][]byte
	err  error
}

func (c *memCache) Get(ctx context.Context, name string) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.data[name], nil
}

func (c *memCache) Set(ctx context.Context, name string, payload []byte) error {
	c.data[name] = payload
	return nil
}

func (c *memCache) Delete(ctx context.Context, name string) error {
	delete(c.data, name)
	return nil
}

func TestBuildSource_Embedded(t *testing.T) {
	cfg := config.Default()

	src, err := buildSource(cfg, nil, nil, zap.NewNop())
	require.NoError(t, err)

	s, err := schema.NewLoader(src, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60, s.QuestionCount())
}

func TestBuildSource_FileThroughCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, web.Questions, 0o644))

	cfg := config.Default()
	cfg.Schema.Source = config.SourceFile
	cfg.Schema.Path = path
	c := &memCache{data: map[string][]byte{}}

	src, err := buildSource(cfg, nil, c, zap.NewNop())
	require.NoError(t, err)
	_, err = src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, web.Questions, c.data[cfg.Schema.Name])

	// Served from the cache once the file is gone.
	require.NoError(t, os.Remove(path))
	payload, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, web.Questions, payload)
}

func TestBuildSource_Redis(t *testing.T) {
	cfg := config.Default()
	cfg.Schema.Source = config.SourceRedis

	_, err := buildSource(cfg, nil, nil, zap.NewNop())
	require.Error(t, err)

	c := &memCache{data: map[string][]byte{}}
	src, err := buildSource(cfg, nil, c, zap.NewNop())
	require.NoError(t, err)

	_, err = src.Fetch(context.Background())
	assert.ErrorIs(t, err, schema.ErrSchemaUnavailable)

	c.data[cfg.Schema.Name] = web.Questions
	payload, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, web.Questions, payload)

	c.err = errors.New("connection reset")
	_, err = src.Fetch(context.Background())
	assert.ErrorIs(t, err, schema.ErrSchemaUnavailable)
}

func TestBuildSource_MongoNeedsDatabase(t *testing.T) {
	cfg := config.Default()
	cfg.Schema.Source = config.SourceMongo

	_, err := buildSource(cfg, nil, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("debug")
	assert.NoError(t, err)
	_, err = newLogger("loud")
	assert.Error(t, err)
}
