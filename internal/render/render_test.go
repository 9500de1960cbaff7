package render

import (
	"strings"
	"testing"

	"bigfive/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fourOptions() []model.Option {
	return []model.Option{
		{Value: 1, Text: "Very inaccurate"},
		{Value: 2, Text: "Moderately inaccurate"},
		{Value: 3, Text: "Moderately accurate"},
		{Value: 4, Text: "Very accurate"},
	}
}

func testSchema() *model.Schema {
	return &model.Schema{Traits: []model.TraitSection{
		{Key: "O", Subcomponents: []model.Subcomponent{
			{Name: "Imagination", Questions: []model.Question{
				{ID: "1", Text: "I have a vivid imagination.", Options: fourOptions()},
				{ID: "2", Text: "I love to daydream.", Options: fourOptions()},
			}},
			{Name: "Artistic Interests", Questions: []model.Question{
				{ID: "3", Text: "I believe in the importance of art.", Options: fourOptions()[:2]},
			}},
		}},
		{Key: "N", Subcomponents: []model.Subcomponent{
			{Name: "Anxiety", Questions: []model.Question{
				{ID: "4", Text: "I worry about things.", Options: fourOptions()},
			}},
			{Name: "Unmatched", Questions: []model.Question{
				{ID: "5", Text: "Dropped silently.", Options: fourOptions()},
			}},
		}},
	}}
}

// Imagination uses the nested shape; Artistic Interests and Anxiety carry
// both attributes directly. "Unmatched" has no slot.
const skeleton = `<!DOCTYPE html><html><body>
<form id="quizForm">
<details class="category" data-trait="O"><summary>Openness</summary>
  <div class="panel-body">
    <details class="subcategory" data-subcomponent="Imagination"><summary>Imagination</summary>
      <div class="panel-body"><button type="button" class="sub-results-btn">See Results</button><div class="sub-result"></div></div>
    </details>
    <details class="subcategory" data-trait="O" data-subcomponent="Artistic Interests"><summary>Artistic Interests</summary>
      <div class="panel-body"><button type="button" class="sub-results-btn">See Results</button><div class="sub-result"></div></div>
    </details>
  </div>
</details>
<details class="category" data-trait="N"><summary>Neuroticism</summary>
  <div class="panel-body">
    <details class="subcategory" data-trait="N" data-subcomponent="Anxiety"><summary>Anxiety</summary>
      <div class="panel-body"><div class="sub-result"></div></div>
    </details>
  </div>
</details>
</form></body></html>`

func parse(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestBuild_PreservesSchemaOrder(t *testing.T) {
	blocks := Build(testSchema())

	type key struct {
		Trait model.TraitKey
		Sub   string
		IDs   []model.QuestionID
	}
	var got []key
	for _, b := range blocks {
		k := key{Trait: b.Trait, Sub: b.Subcomponent}
		for _, q := range b.Questions {
			k.IDs = append(k.IDs, q.QuestionID)
		}
		got = append(got, k)
	}

	want := []key{
		{Trait: "O", Sub: "Imagination", IDs: []model.QuestionID{"1", "2"}},
		{Trait: "O", Sub: "Artistic Interests", IDs: []model.QuestionID{"3"}},
		{Trait: "N", Sub: "Anxiety", IDs: []model.QuestionID{"4"}},
		{Trait: "N", Sub: "Unmatched", IDs: []model.QuestionID{"5"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_ChoicesShareQuestionGroup(t *testing.T) {
	blocks := Build(testSchema())
	q := blocks[0].Questions[0]

	want := []Choice{
		{Group: "q1", Value: 1, Label: "Very inaccurate"},
		{Group: "q1", Value: 2, Label: "Moderately inaccurate"},
		{Group: "q1", Value: 3, Label: "Moderately accurate"},
		{Group: "q1", Value: 4, Label: "Very accurate"},
	}
	if diff := cmp.Diff(want, q.Choices); diff != "" {
		t.Errorf("choices mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, model.TraitKey("O"), q.Trait)
}

func TestResolvers_BothShapesResolveSameContainer(t *testing.T) {
	doc := parse(t, skeleton)

	// Nested shape only resolves through NestedResolver.
	_, ok := AttributeResolver{}.Resolve(doc, "O", "Imagination")
	assert.False(t, ok)
	c, ok := NestedResolver{}.Resolve(doc, "O", "Imagination")
	require.True(t, ok)
	assert.Equal(t, "Imagination", c.Selection.AttrOr(AttrSubcomponent, ""))

	// Dual-attribute markup nested under its trait resolves both ways to one node.
	a, ok := AttributeResolver{}.Resolve(doc, "O", "Artistic Interests")
	require.True(t, ok)
	n, ok := NestedResolver{}.Resolve(doc, "O", "Artistic Interests")
	require.True(t, ok)
	assert.True(t, a.Selection.IsSelection(n.Selection))

	// Trait must match.
	_, ok = DefaultResolver().Resolve(doc, "C", "Imagination")
	assert.False(t, ok)
	_, ok = DefaultResolver().Resolve(doc, "N", "Unmatched")
	assert.False(t, ok)
}

func TestAttach_InsertsBeforeTriggerInOrder(t *testing.T) {
	doc := parse(t, skeleton)
	n := Attach(doc, Build(testSchema()), DefaultResolver(), zap.NewNop())
	assert.Equal(t, 3, n)

	c, ok := DefaultResolver().Resolve(doc, "O", "Imagination")
	require.True(t, ok)

	questions := c.Selection.Find(".question")
	require.Equal(t, 2, questions.Length())
	assert.Equal(t, "I have a vivid imagination.", questions.Eq(0).Find("p").Text())
	assert.Equal(t, "I love to daydream.", questions.Eq(1).Find("p").Text())
	assert.Equal(t, "O", questions.Eq(0).AttrOr(AttrTrait, ""))

	radios := questions.Eq(0).Find("input[type=radio]")
	require.Equal(t, 4, radios.Length())
	radios.Each(func(i int, s *goquery.Selection) {
		assert.Equal(t, "q1", s.AttrOr("name", ""))
		assert.Equal(t, string(rune('1'+i)), s.AttrOr("value", ""))
	})
	assert.Equal(t, "I have a vivid imagination. Very inaccurate Moderately inaccurate Moderately accurate Very accurate",
		strings.Join(strings.Fields(questions.Eq(0).Text()), " "))

	// The widget block sits immediately before the trigger.
	trigger := c.Trigger()
	prev := trigger.Prev()
	assert.Equal(t, 2, prev.Find(".question").Length())
}

func TestAttach_AppendsWhenTriggerMissing(t *testing.T) {
	doc := parse(t, skeleton)
	Attach(doc, Build(testSchema()), DefaultResolver(), zap.NewNop())

	c, ok := DefaultResolver().Resolve(doc, "N", "Anxiety")
	require.True(t, ok)
	body := c.Body()
	assert.Equal(t, 1, body.Find(".question").Length())
	assert.Equal(t, 1, body.Children().Last().Find(".question").Length())
}

func TestAttach_SkipsUnmatchedPairs(t *testing.T) {
	doc := parse(t, skeleton)
	Attach(doc, Build(testSchema()), DefaultResolver(), zap.NewNop())

	assert.Equal(t, 0, doc.Find("input[name=q5]").Length())
	assert.Equal(t, 4, doc.Find(".question").Length())
}
