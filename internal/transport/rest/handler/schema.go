package handler

import (
	"context"
	"errors"
	"net/http"

	"bigfive/internal/model"
	"bigfive/internal/schema"

	"go.uber.org/zap"
)

// SchemaProvider loads the current schema
type SchemaProvider interface {
	Schema(ctx context.Context) (*model.Schema, error)
}

// SchemaHandler exposes the parsed schema
type SchemaHandler struct {
	schemas SchemaProvider
	logger  *zap.Logger
}

// NewSchemaHandler creates a new schema handler
func NewSchemaHandler(schemas SchemaProvider, logger *zap.Logger) *SchemaHandler {
	return &SchemaHandler{schemas: schemas, logger: logger}
}

// Get handles GET /v1/schema
func (h *SchemaHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.schemas.Schema(r.Context())
	if err != nil {
		h.logger.Warn("load schema", zap.Error(err))
		switch {
		case errors.Is(err, schema.ErrSchemaUnavailable):
			writeError(w, http.StatusServiceUnavailable, "schema unavailable")
		case errors.Is(err, schema.ErrSchemaMalformed):
			writeError(w, http.StatusBadGateway, "schema malformed")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, s)
}
