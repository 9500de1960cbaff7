package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"bigfive/internal/metrics"
	"bigfive/internal/model"
	"bigfive/internal/page"
	"bigfive/internal/render"
	"bigfive/internal/schema"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrPageNotFound = errors.New("page session not found")
	ErrPageAttached = errors.New("page session already has an event channel")
)

const (
	MetaPageToken = "page-token"
	ClientScript  = "/static/quiz.js"
)

type pageEntry struct {
	page    *page.Page
	session model.PageSession
}

// PageService creates page sessions and keeps them until their event
// channel closes
type PageService struct {
	loader   *schema.Loader
	skeleton []byte
	resolver render.Resolver
	tokens   *TokenService
	metrics  *metrics.Metrics
	logger   *zap.Logger

	// pages never attached are dropped after ttl
	ttl time.Duration

	mu    sync.RWMutex
	pages map[string]*pageEntry
}

// NewPageService creates a new page service
func NewPageService(loader *schema.Loader, skeleton []byte, tokens *TokenService, m *metrics.Metrics, ttl time.Duration, logger *zap.Logger) *PageService {
	return &PageService{
		loader:   loader,
		skeleton: skeleton,
		resolver: render.DefaultResolver(),
		tokens:   tokens,
		metrics:  m,
		logger:   logger,
		ttl:      ttl,
		pages:    make(map[string]*pageEntry),
	}
}

// Schema loads the current schema
func (s *PageService) Schema(ctx context.Context) (*model.Schema, error) {
	return s.loader.Load(ctx)
}

// Open loads the schema and renders a fresh page session. On a load failure
// nothing is registered and the error wraps the schema error kind.
func (s *PageService) Open(ctx context.Context) (*page.Page, error) {
	sch, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	p, err := page.New(id, s.skeleton, sch, s.resolver, s.logger)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(id)
	if err != nil {
		return nil, err
	}
	p.SetMeta(MetaPageToken, token)
	p.AddScript(ClientScript)

	s.mu.Lock()
	s.pages[id] = &pageEntry{
		page: p,
		session: model.PageSession{
			ID:        id,
			Status:    model.PageWaiting,
			CreatedAt: time.Now(),
		},
	}
	s.mu.Unlock()
	s.metrics.ActivePages.Inc()

	s.logger.Debug("page session opened", zap.String("page", id))
	return p, nil
}

// Attach marks a page as driven by an event channel. A page takes one
// channel at most.
func (s *PageService) Attach(id string) (*page.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.pages[id]
	if !ok {
		return nil, ErrPageNotFound
	}
	if e.session.Status != model.PageWaiting {
		return nil, ErrPageAttached
	}
	now := time.Now()
	e.session.Status = model.PageAttached
	e.session.AttachedAt = &now
	return e.page, nil
}

// MarkSubmitted records the one-way transition to the results view
func (s *PageService) MarkSubmitted(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.pages[id]; ok {
		e.session.Status = model.PageSubmitted
	}
}

// Session returns the bookkeeping record of a page
func (s *PageService) Session(id string) (model.PageSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.pages[id]
	if !ok {
		return model.PageSession{}, false
	}
	return e.session, true
}

// Get returns a live page
func (s *PageService) Get(id string) (*page.Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.pages[id]
	if !ok {
		return nil, false
	}
	return e.page, true
}

// Close drops a page session; its state is gone for good
func (s *PageService) Close(id string) {
	s.mu.Lock()
	_, ok := s.pages[id]
	delete(s.pages, id)
	s.mu.Unlock()

	if ok {
		s.metrics.ActivePages.Dec()
		s.logger.Debug("page session closed", zap.String("page", id))
	}
}

// Count returns the number of live page sessions
func (s *PageService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// Sweep drops pages that were served but never attached within ttl
func (s *PageService) Sweep(now time.Time) int {
	s.mu.Lock()
	var stale []string
	for id, e := range s.pages {
		if e.session.Status == model.PageWaiting && now.Sub(e.session.CreatedAt) > s.ttl {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		delete(s.pages, id)
	}
	s.mu.Unlock()

	if len(stale) > 0 {
		s.metrics.ActivePages.Sub(float64(len(stale)))
		s.logger.Info("swept stale page sessions", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// RunSweeper sweeps every interval until ctx is done
func (s *PageService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}
