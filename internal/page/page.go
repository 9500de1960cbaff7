// Package page holds the live document of one questionnaire session: the
// skeleton markup with rendered widgets, answer state and disclosure state.
package page

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"bigfive/internal/accordion"
	"bigfive/internal/model"
	"bigfive/internal/render"
	"bigfive/internal/scoring"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	ErrSubmitted           = errors.New("questionnaire already submitted")
	ErrUnknownQuestion     = errors.New("unknown question")
	ErrUnknownOption       = errors.New("unknown option")
	ErrUnknownTrait        = errors.New("unknown trait")
	ErrUnknownSubcomponent = errors.New("unknown subcomponent")
)

const (
	ClassTraitTrigger = "trait-results-btn"
	ClassTraitResult  = "trait-result"
	ClassTraitLabel   = "trait-label"
	ClassBar          = "bar"
	ClassBarFill      = "bar-fill"

	IDForm       = "quizForm"
	IDResults    = "results"
	IDResultBars = "resultBars"
)

// Page is one rendered questionnaire document. All methods are safe for
// concurrent use; in practice a single event channel drives each page.
type Page struct {
	mu        sync.Mutex
	id        string
	doc       *goquery.Document
	resolver  render.Resolver
	accordion *accordion.Accordion
	submitted bool
	logger    *zap.Logger
}

// New parses skeleton, renders the schema into it and wires the trait-level
// controls.
func New(id string, skeleton []byte, s *model.Schema, resolver render.Resolver, logger *zap.Logger) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(skeleton))
	if err != nil {
		return nil, fmt.Errorf("parse skeleton: %w", err)
	}

	p := &Page{
		id:        id,
		doc:       doc,
		resolver:  resolver,
		accordion: accordion.New(doc),
		logger:    logger.With(zap.String("page", id)),
	}

	blocks := render.Build(s)
	attached := render.Attach(doc, blocks, resolver, p.logger)
	p.tagTriggers(blocks)
	p.accordion.InstallExpandAll()
	p.installTraitControls()

	p.logger.Debug("page rendered",
		zap.Int("blocks", len(blocks)),
		zap.Int("attached", attached))
	return p, nil
}

// ID returns the page session id
func (p *Page) ID() string {
	return p.id
}

// tagTriggers stamps each subcomponent trigger with the pair it scores so
// both markup shapes look the same to the client.
func (p *Page) tagTriggers(blocks []render.Block) {
	for _, b := range blocks {
		c, ok := p.resolver.Resolve(p.doc, b.Trait, b.Subcomponent)
		if !ok {
			continue
		}
		c.Trigger().
			SetAttr(render.AttrTrait, string(b.Trait)).
			SetAttr(render.AttrSubcomponent, b.Subcomponent)
	}
}

func (p *Page) installTraitControls() {
	p.doc.Find("details." + render.ClassTrait).Each(func(_ int, cat *goquery.Selection) {
		key := model.TraitKey(cat.AttrOr(render.AttrTrait, ""))
		body := cat.ChildrenFiltered("." + render.ClassPanelBody).First()
		if body.Length() == 0 {
			return
		}

		btn := element(atom.Button,
			html.Attribute{Key: "type", Val: "button"},
			html.Attribute{Key: "class", Val: ClassTraitTrigger},
			html.Attribute{Key: render.AttrTrait, Val: string(key)},
		)
		btn.AppendChild(textNode("See " + key.Label() + " Results"))
		out := element(atom.Div, html.Attribute{Key: "class", Val: ClassTraitResult})
		body.AppendNodes(btn, out)
	})
}

// Select checks the option valued value of question id and unchecks every
// other option of that question.
func (p *Page) Select(id model.QuestionID, value int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.submitted {
		return ErrSubmitted
	}

	group := p.radios(id)
	if group.Length() == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	want := strconv.Itoa(value)
	choice := group.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("value", "") == want
	}).First()
	if choice.Length() == 0 {
		return fmt.Errorf("%w: question %s has no option %d", ErrUnknownOption, id, value)
	}

	group.RemoveAttr("checked")
	choice.SetAttr("checked", "")
	return nil
}

func (p *Page) radios(id model.QuestionID) *goquery.Selection {
	name := render.GroupName(id)
	return p.doc.Find("." + render.ClassQuestion + " input[type=radio]").
		FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.AttrOr("name", "") == name
		})
}

// Answers reads the answer state of every rendered question
func (p *Page) Answers() []model.AnsweredQuestion {
	p.mu.Lock()
	defer p.mu.Unlock()
	return answersIn(p.doc.Selection)
}

func answersIn(root *goquery.Selection) []model.AnsweredQuestion {
	var answers []model.AnsweredQuestion
	root.Find("." + render.ClassQuestion).Each(func(_ int, q *goquery.Selection) {
		radios := q.Find("input[type=radio]")
		a := model.AnsweredQuestion{
			QuestionID:   model.QuestionID(strings.TrimPrefix(radios.First().AttrOr("name", ""), "q")),
			Trait:        model.TraitKey(q.AttrOr(render.AttrTrait, "")),
			Subcomponent: q.Closest("." + render.ClassSubcomponent).AttrOr(render.AttrSubcomponent, ""),
		}
		radios.EachWithBreak(func(_ int, r *goquery.Selection) bool {
			if _, ok := r.Attr("checked"); !ok {
				return true
			}
			if v, err := strconv.Atoi(r.AttrOr("value", "")); err == nil {
				a.Value = v
			}
			return false
		})
		answers = append(answers, a)
	})
	return answers
}

// SubcomponentScore scores the questions under one subcomponent container
// and writes the text into its result slot.
func (p *Page) SubcomponentScore(trait model.TraitKey, sub string) (model.Score, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.resolver.Resolve(p.doc, trait, sub)
	if !ok {
		return model.Score{}, "", fmt.Errorf("%w: %s/%s", ErrUnknownSubcomponent, trait, sub)
	}

	s := scoring.ForSubcomponent(answersIn(c.Selection), trait, sub)
	text := scoring.SubcomponentText(s)
	c.Selection.Find("." + render.ClassSubResult).First().SetText(text)
	return s, text, nil
}

// TraitScore scores every question tagged with trait, fresh from widget state
func (p *Page) TraitScore(trait model.TraitKey) (model.Score, string, error) {
	if !trait.Valid() {
		return model.Score{}, "", fmt.Errorf("%w: %q", ErrUnknownTrait, trait)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	s := scoring.ForTrait(answersIn(p.doc.Selection), trait)
	text := scoring.TraitText(trait, s)
	p.traitGroup(trait).ChildrenFiltered("." + render.ClassPanelBody).
		Find("." + ClassTraitResult).Last().SetText(text)
	return s, text, nil
}

func (p *Page) traitGroup(trait model.TraitKey) *goquery.Selection {
	return p.doc.Find("details." + render.ClassTrait).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr(render.AttrTrait, "") == string(trait)
	}).First()
}

// Submitted reports whether the results view is showing
func (p *Page) Submitted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitted
}

// Submit scores all five traits, renders label and bar for each, hides the
// form and shows the results. The transition is one-way.
func (p *Page) Submit() []model.TraitResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	results := scoring.ForInstrument(answersIn(p.doc.Selection))

	bars := p.doc.Find("#" + IDResultBars)
	bars.Empty()
	for _, r := range results {
		wrap := element(atom.Div, html.Attribute{Key: render.AttrTrait, Val: string(r.Trait)})

		label := element(atom.Div, html.Attribute{Key: "class", Val: ClassTraitLabel})
		label.AppendChild(textNode(r.Text))
		wrap.AppendChild(label)

		bar := element(atom.Div, html.Attribute{Key: "class", Val: ClassBar})
		bar.AppendChild(element(atom.Div,
			html.Attribute{Key: "class", Val: ClassBarFill},
			html.Attribute{Key: "style", Val: "width: " + r.BarWidth},
		))
		wrap.AppendChild(bar)

		bars.AppendNodes(wrap)
	}

	p.doc.Find("#"+IDForm).SetAttr("style", "display: none")
	p.doc.Find("#"+IDResults).SetAttr("style", "display: block")

	if !p.submitted {
		p.logger.Info("questionnaire submitted")
	}
	p.submitted = true
	return results
}

// ToggleTrait opens a trait group exclusively, or closes it when open
func (p *Page) ToggleTrait(trait model.TraitKey) accordion.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accordion.ToggleTrait(trait)
	return p.accordion.State()
}

// ToggleSubcomponent flips one subcomponent group
func (p *Page) ToggleSubcomponent(trait model.TraitKey, sub string) accordion.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accordion.ToggleSubcomponent(trait, sub)
	return p.accordion.State()
}

// ToggleExpandAll flips the expand-all control of trait
func (p *Page) ToggleExpandAll(trait model.TraitKey) accordion.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accordion.ToggleExpandAll(trait)
	return p.accordion.State()
}

// Disclosure snapshots the accordion state
func (p *Page) Disclosure() accordion.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accordion.State()
}

// SetMeta adds or replaces a <meta name=...> in the document head
func (p *Page) SetMeta(name, content string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	existing := p.doc.Find("head meta").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("name", "") == name
	})
	if existing.Length() > 0 {
		existing.SetAttr("content", content)
		return
	}
	p.doc.Find("head").AppendNodes(element(atom.Meta,
		html.Attribute{Key: "name", Val: name},
		html.Attribute{Key: "content", Val: content},
	))
}

// AddScript appends a deferred external script to the head
func (p *Page) AddScript(src string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.doc.Find("head").AppendNodes(element(atom.Script,
		html.Attribute{Key: "src", Val: src},
		html.Attribute{Key: "defer", Val: ""},
	))
}

// HTML serializes the whole document
func (p *Page) HTML() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var buf bytes.Buffer
	for _, n := range p.doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
