package render

import (
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attach inserts every block into its resolved container, right before the
// subcomponent score trigger. Blocks without a container are skipped.
// It returns the number of blocks attached.
func Attach(doc *goquery.Document, blocks []Block, resolver Resolver, logger *zap.Logger) int {
	attached := 0
	for _, b := range blocks {
		c, ok := resolver.Resolve(doc, b.Trait, b.Subcomponent)
		if !ok {
			logger.Debug("no container for subcomponent",
				zap.String("trait", string(b.Trait)),
				zap.String("subcomponent", b.Subcomponent))
			continue
		}

		node := blockNode(b)
		if spot := c.Trigger(); spot.Length() > 0 {
			spot.BeforeNodes(node)
		} else {
			c.Body().AppendNodes(node)
		}
		attached++
	}
	return attached
}

func blockNode(b Block) *html.Node {
	wrap := element(atom.Div)
	for _, q := range b.Questions {
		wrap.AppendChild(questionNode(q))
	}
	return wrap
}

func questionNode(q QuestionWidget) *html.Node {
	div := element(atom.Div,
		html.Attribute{Key: "class", Val: ClassQuestion},
		html.Attribute{Key: AttrTrait, Val: string(q.Trait)},
	)

	p := element(atom.P)
	p.AppendChild(text(q.Text))
	div.AppendChild(p)

	for _, c := range q.Choices {
		label := element(atom.Label)
		label.AppendChild(element(atom.Input,
			html.Attribute{Key: "type", Val: "radio"},
			html.Attribute{Key: "name", Val: c.Group},
			html.Attribute{Key: "value", Val: valueAttr(c.Value)},
		))
		label.AppendChild(text(" " + c.Label))
		div.AppendChild(label)
	}
	return div
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
