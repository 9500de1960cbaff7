package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bigfive/internal/metrics"
	"bigfive/internal/model"
	"bigfive/internal/schema"
	"bigfive/web"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPageService(t *testing.T, src schema.Source) (*PageService, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	loader := schema.NewLoader(src, zap.NewNop())
	loader.SetObserver(m)
	svc := NewPageService(loader, web.Skeleton, NewTokenService("secret", time.Hour), m, time.Minute, zap.NewNop())
	return svc, m
}

func TestPageService_OpenAttachClose(t *testing.T) {
	svc, m := newPageService(t, schema.BytesSource(web.Questions))

	p, err := svc.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Count())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActivePages))

	out, err := p.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, `name="page-token"`)
	assert.Contains(t, out, ClientScript)

	sess, ok := svc.Session(p.ID())
	require.True(t, ok)
	assert.Equal(t, model.PageWaiting, sess.Status)

	attached, err := svc.Attach(p.ID())
	require.NoError(t, err)
	assert.Same(t, p, attached)

	_, err = svc.Attach(p.ID())
	assert.ErrorIs(t, err, ErrPageAttached)

	svc.MarkSubmitted(p.ID())
	sess, _ = svc.Session(p.ID())
	assert.Equal(t, model.PageSubmitted, sess.Status)

	svc.Close(p.ID())
	_, ok = svc.Get(p.ID())
	assert.False(t, ok)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ActivePages))

	_, err = svc.Attach(p.ID())
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestPageService_OpenFailsWithoutRegistering(t *testing.T) {
	failing := schema.SourceFunc(func(ctx context.Context) ([]byte, error) {
		return nil, errors.New("transport down")
	})
	svc, m := newPageService(t, failing)

	p, err := svc.Open(context.Background())
	assert.Nil(t, p)
	assert.ErrorIs(t, err, schema.ErrSchemaUnavailable)
	assert.Equal(t, 0, svc.Count())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SchemaLoads.WithLabelValues("unavailable")))
}

func TestPageService_SweepDropsOnlyStaleWaitingPages(t *testing.T) {
	svc, _ := newPageService(t, schema.BytesSource(web.Questions))

	waiting, err := svc.Open(context.Background())
	require.NoError(t, err)
	live, err := svc.Open(context.Background())
	require.NoError(t, err)
	_, err = svc.Attach(live.ID())
	require.NoError(t, err)

	assert.Equal(t, 0, svc.Sweep(time.Now()))
	assert.Equal(t, 1, svc.Sweep(time.Now().Add(2*time.Minute)))

	_, ok := svc.Get(waiting.ID())
	assert.False(t, ok)
	_, ok = svc.Get(live.ID())
	assert.True(t, ok)
}
