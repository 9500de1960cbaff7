package web

import (
	"bytes"
	"context"
	"io/fs"
	"strings"
	"testing"

	"bigfive/internal/render"
	"bigfive/internal/schema"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmbeddedSchemaParses(t *testing.T) {
	s, err := schema.NewLoader(schema.BytesSource(Questions), zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, s.Traits, 5)
	assert.Equal(t, 60, s.QuestionCount())
}

func TestSkeletonHasSlotForEverySubcomponent(t *testing.T) {
	s, err := schema.Parse(Questions)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(Skeleton))
	require.NoError(t, err)

	n := render.Attach(doc, render.Build(s), render.DefaultResolver(), zap.NewNop())
	assert.Equal(t, 30, n)
}

func TestStaticAssets(t *testing.T) {
	for _, name := range []string{"quiz.js", "quiz.css"} {
		_, err := fs.Stat(Static(), name)
		assert.NoError(t, err, name)
	}
}

func TestRenderFailure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderFailure(&buf))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find(".failure").Length())
	assert.Equal(t, FailureMessage, doc.Find(".failure").Text())
	assert.Equal(t, 0, doc.Find(".question").Length())
	assert.Equal(t, 0, doc.Find("script").Length())
}
