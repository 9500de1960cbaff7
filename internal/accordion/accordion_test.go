package accordion

import (
	"strings"
	"testing"

	"bigfive/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const markup = `<html><body>
<details class="category" data-trait="O"><summary>Openness</summary><div class="panel-body">
  <details class="subcategory" data-subcomponent="Imagination"><summary>Imagination</summary></details>
  <details class="subcategory" data-subcomponent="Intellect"><summary>Intellect</summary></details>
</div></details>
<details class="category" data-trait="C"><summary>Conscientiousness</summary><div class="panel-body">
  <details class="subcategory" data-trait="C" data-subcomponent="Orderliness"><summary>Orderliness</summary></details>
</div></details>
<details class="category" data-trait="E"><summary>Extraversion</summary><div class="panel-body"></div></details>
</body></html>`

func newAccordion(t *testing.T) *Accordion {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	a := New(doc)
	a.InstallExpandAll()
	return a
}

func TestInstallExpandAll(t *testing.T) {
	a := newAccordion(t)
	for _, key := range []model.TraitKey{"O", "C", "E"} {
		assert.Equal(t, GlyphCollapsed, a.Glyph(key))
		assert.False(t, a.Expanded(key))
	}
}

func TestOpenTrait_SingleOpen(t *testing.T) {
	a := newAccordion(t)

	a.OpenTrait("O")
	assert.True(t, a.IsOpen("O"))

	a.OpenTrait("C")
	assert.False(t, a.IsOpen("O"))
	assert.True(t, a.IsOpen("C"))
	assert.Equal(t, []model.TraitKey{"C"}, a.State().OpenTraits)
}

func TestToggleTrait(t *testing.T) {
	a := newAccordion(t)

	a.ToggleTrait("E")
	assert.True(t, a.IsOpen("E"))
	a.ToggleTrait("O")
	assert.True(t, a.IsOpen("O"))
	assert.False(t, a.IsOpen("E"))
	a.ToggleTrait("O")
	assert.False(t, a.IsOpen("O"))
	assert.Empty(t, a.State().OpenTraits)
}

func TestToggleExpandAll_RoundTrip(t *testing.T) {
	a := newAccordion(t)

	assert.True(t, a.ToggleExpandAll("O"))
	assert.True(t, a.IsOpen("O"))
	assert.True(t, a.IsSubcomponentOpen("O", "Imagination"))
	assert.True(t, a.IsSubcomponentOpen("O", "Intellect"))
	assert.Equal(t, GlyphExpanded, a.Glyph("O"))
	assert.True(t, a.Expanded("O"))

	assert.False(t, a.ToggleExpandAll("O"))
	assert.True(t, a.IsOpen("O"))
	assert.False(t, a.IsSubcomponentOpen("O", "Imagination"))
	assert.False(t, a.IsSubcomponentOpen("O", "Intellect"))
	assert.Equal(t, GlyphCollapsed, a.Glyph("O"))
	assert.False(t, a.Expanded("O"))
}

func TestToggleExpandAll_LeavesOtherTraitsAlone(t *testing.T) {
	a := newAccordion(t)

	a.OpenTrait("C")
	a.ToggleExpandAll("O")
	assert.True(t, a.IsOpen("C"))
	assert.True(t, a.IsOpen("O"))
	assert.False(t, a.IsSubcomponentOpen("C", "Orderliness"))

	// The next regular open restores the single-open invariant.
	a.OpenTrait("E")
	assert.Equal(t, []model.TraitKey{"E"}, a.State().OpenTraits)
	assert.True(t, a.IsSubcomponentOpen("O", "Imagination"))
}

func TestToggleSubcomponent(t *testing.T) {
	a := newAccordion(t)

	a.ToggleSubcomponent("C", "Orderliness")
	assert.True(t, a.IsSubcomponentOpen("C", "Orderliness"))
	assert.Equal(t, []string{"Orderliness"}, a.State().OpenSubcomponents["C"])
	a.ToggleSubcomponent("C", "Orderliness")
	assert.False(t, a.IsSubcomponentOpen("C", "Orderliness"))
}

func TestUnknownTraitIsNoop(t *testing.T) {
	a := newAccordion(t)
	a.OpenTrait("O")
	a.OpenTrait("X")
	assert.True(t, a.IsOpen("O"))
	assert.False(t, a.ToggleExpandAll("X"))
}
