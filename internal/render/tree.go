// Package render turns a question schema into widget blocks and attaches
// them to the containers of a page skeleton.
package render

import (
	"strconv"

	"bigfive/internal/model"
)

// Choice is one exclusive-choice control of a question widget
type Choice struct {
	Group string // shared by every choice of one question
	Value int
	Label string
}

// QuestionWidget is the abstract form of one rendered question
type QuestionWidget struct {
	QuestionID model.QuestionID
	Trait      model.TraitKey
	Text       string
	Choices    []Choice
}

// Block holds the widgets destined for one (trait, subcomponent) container
type Block struct {
	Trait        model.TraitKey
	Subcomponent string
	Questions    []QuestionWidget
}

// GroupName is the radio group name for a question
func GroupName(id model.QuestionID) string {
	return "q" + string(id)
}

// Build walks the schema in trait, subcomponent, question, option order
// and returns one block per subcomponent. It never touches a document.
func Build(s *model.Schema) []Block {
	var blocks []Block
	for _, t := range s.Traits {
		for _, sub := range t.Subcomponents {
			block := Block{
				Trait:        t.Key,
				Subcomponent: sub.Name,
				Questions:    make([]QuestionWidget, 0, len(sub.Questions)),
			}
			for _, q := range sub.Questions {
				w := QuestionWidget{
					QuestionID: q.ID,
					Trait:      t.Key,
					Text:       q.Text,
					Choices:    make([]Choice, 0, len(q.Options)),
				}
				for _, opt := range q.Options {
					w.Choices = append(w.Choices, Choice{
						Group: GroupName(q.ID),
						Value: opt.Value,
						Label: opt.Text,
					})
				}
				block.Questions = append(block.Questions, w)
			}
			blocks = append(blocks, block)
		}
	}
	return blocks
}

func valueAttr(v int) string {
	return strconv.Itoa(v)
}
