package handler

import (
	"context"
	"net/http"

	"bigfive/internal/page"
	"bigfive/web"

	"go.uber.org/zap"
)

// PageOpener creates page sessions
type PageOpener interface {
	Open(ctx context.Context) (*page.Page, error)
}

// PageHandler serves the questionnaire page
type PageHandler struct {
	pages  PageOpener
	logger *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(pages PageOpener, logger *zap.Logger) *PageHandler {
	return &PageHandler{pages: pages, logger: logger}
}

// Index handles GET /
// A schema failure renders the failure notice alone: no widgets, no client
// script, nothing wired.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	p, err := h.pages.Open(r.Context())
	if err != nil {
		h.logger.Error("open page session", zap.Error(err))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		if err := web.RenderFailure(w); err != nil {
			h.logger.Error("render failure notice", zap.Error(err))
		}
		return
	}

	out, err := p.HTML()
	if err != nil {
		h.logger.Error("serialize page", zap.String("page", p.ID()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}
