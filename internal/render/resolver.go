package render

import (
	"bigfive/internal/model"

	"github.com/PuerkitoBio/goquery"
)

// Class names and attributes of the page skeleton
const (
	ClassTrait        = "category"
	ClassSubcomponent = "subcategory"
	ClassPanelBody    = "panel-body"
	ClassSubTrigger   = "sub-results-btn"
	ClassSubResult    = "sub-result"
	ClassQuestion     = "question"

	AttrTrait        = "data-trait"
	AttrSubcomponent = "data-subcomponent"
)

// Container is the normalized handle of a subcomponent slot
type Container struct {
	Trait        model.TraitKey
	Subcomponent string
	Selection    *goquery.Selection
}

// Body returns the panel body inside the container, or the container itself
func (c *Container) Body() *goquery.Selection {
	body := c.Selection.Find("." + ClassPanelBody).First()
	if body.Length() == 0 {
		return c.Selection
	}
	return body
}

// Trigger returns the "compute subcomponent score" control, possibly empty
func (c *Container) Trigger() *goquery.Selection {
	return c.Body().Find("." + ClassSubTrigger).First()
}

// Resolver finds the container for a (trait, subcomponent) pair
type Resolver interface {
	Resolve(doc *goquery.Document, trait model.TraitKey, sub string) (*Container, bool)
}

// NestedResolver matches a subcomponent nested under its trait container
type NestedResolver struct{}

func (NestedResolver) Resolve(doc *goquery.Document, trait model.TraitKey, sub string) (*Container, bool) {
	sel := doc.Find("." + ClassTrait).
		FilterFunction(attrEquals(AttrTrait, string(trait))).
		Find("." + ClassSubcomponent).
		FilterFunction(attrEquals(AttrSubcomponent, sub)).
		First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &Container{Trait: trait, Subcomponent: sub, Selection: sel}, true
}

// AttributeResolver matches a subcomponent carrying both attributes itself
type AttributeResolver struct{}

func (AttributeResolver) Resolve(doc *goquery.Document, trait model.TraitKey, sub string) (*Container, bool) {
	sel := doc.Find("." + ClassSubcomponent).
		FilterFunction(attrEquals(AttrTrait, string(trait))).
		FilterFunction(attrEquals(AttrSubcomponent, sub)).
		First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &Container{Trait: trait, Subcomponent: sub, Selection: sel}, true
}

// FirstMatch tries each resolver in order
type FirstMatch []Resolver

func (m FirstMatch) Resolve(doc *goquery.Document, trait model.TraitKey, sub string) (*Container, bool) {
	for _, r := range m {
		if c, ok := r.Resolve(doc, trait, sub); ok {
			return c, true
		}
	}
	return nil, false
}

// DefaultResolver accepts both markup shapes
func DefaultResolver() Resolver {
	return FirstMatch{AttributeResolver{}, NestedResolver{}}
}

func attrEquals(name, want string) func(int, *goquery.Selection) bool {
	return func(_ int, s *goquery.Selection) bool {
		v, ok := s.Attr(name)
		return ok && v == want
	}
}
