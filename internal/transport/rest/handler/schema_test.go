package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bigfive/internal/model"
	"bigfive/internal/schema"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type schemaFunc func(ctx context.Context) (*model.Schema, error)

func (f schemaFunc) Schema(ctx context.Context) (*model.Schema, error) { return f(ctx) }

func TestSchemaHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "unavailable", err: fmt.Errorf("%w: timeout", schema.ErrSchemaUnavailable), status: http.StatusServiceUnavailable},
		{name: "malformed", err: fmt.Errorf("%w: bad shape", schema.ErrSchemaMalformed), status: http.StatusBadGateway},
		{name: "other", err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSchemaHandler(schemaFunc(func(context.Context) (*model.Schema, error) {
				return nil, tt.err
			}), zap.NewNop())

			rec := httptest.NewRecorder()
			h.Get(rec, httptest.NewRequest(http.MethodGet, "/v1/schema", nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}
