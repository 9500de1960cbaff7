// Package accordion keeps the open/closed state of trait and subcomponent
// disclosure groups in the page document.
package accordion

import (
	"bigfive/internal/model"
	"bigfive/internal/render"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	ClassExpandAll = "expand-all-btn"

	GlyphCollapsed = "⇲"
	GlyphExpanded  = "⇱"

	attrOpen     = "open"
	attrDataOpen = "data-open"
)

// State is a snapshot of every disclosure group
type State struct {
	OpenTraits        []model.TraitKey            `json:"openTraits"`
	OpenSubcomponents map[model.TraitKey][]string `json:"openSubcomponents"`
	Expanded          map[model.TraitKey]bool     `json:"expanded"`
}

// Accordion drives the disclosure groups of one document
type Accordion struct {
	doc *goquery.Document
}

// New wraps doc
func New(doc *goquery.Document) *Accordion {
	return &Accordion{doc: doc}
}

func (a *Accordion) traits() *goquery.Selection {
	return a.doc.Find("details." + render.ClassTrait)
}

func (a *Accordion) trait(key model.TraitKey) *goquery.Selection {
	return a.traits().FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr(render.AttrTrait, "") == string(key)
	}).First()
}

func (a *Accordion) subcomponents(key model.TraitKey) *goquery.Selection {
	return a.trait(key).Find("details." + render.ClassSubcomponent)
}

// InstallExpandAll appends the expand/collapse-all control to every trait
// summary. Call once per document.
func (a *Accordion) InstallExpandAll() {
	a.traits().Each(func(_ int, s *goquery.Selection) {
		summary := s.ChildrenFiltered("summary").First()
		if summary.Length() == 0 {
			return
		}
		btn := &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Button,
			Data:     "button",
			Attr: []html.Attribute{
				{Key: "type", Val: "button"},
				{Key: "class", Val: ClassExpandAll},
				{Key: "title", Val: "Toggle all sub-facets"},
				{Key: attrDataOpen, Val: "false"},
			},
		}
		btn.AppendChild(&html.Node{Type: html.TextNode, Data: GlyphCollapsed})
		summary.AppendNodes(btn)
	})
}

// IsOpen reports whether the trait group is open
func (a *Accordion) IsOpen(key model.TraitKey) bool {
	_, ok := a.trait(key).Attr(attrOpen)
	return ok
}

// IsSubcomponentOpen reports whether one subcomponent group is open
func (a *Accordion) IsSubcomponentOpen(key model.TraitKey, sub string) bool {
	_, ok := a.subcomponent(key, sub).Attr(attrOpen)
	return ok
}

// OpenTrait opens key and closes every other trait group
func (a *Accordion) OpenTrait(key model.TraitKey) {
	target := a.trait(key)
	if target.Length() == 0 {
		return
	}
	a.traits().Each(func(_ int, s *goquery.Selection) {
		if !s.IsSelection(target) {
			s.RemoveAttr(attrOpen)
		}
	})
	target.SetAttr(attrOpen, "")
}

// ToggleTrait closes an open trait group, or opens it exclusively
func (a *Accordion) ToggleTrait(key model.TraitKey) {
	if a.IsOpen(key) {
		a.trait(key).RemoveAttr(attrOpen)
		return
	}
	a.OpenTrait(key)
}

// ToggleSubcomponent flips one subcomponent group
func (a *Accordion) ToggleSubcomponent(key model.TraitKey, sub string) {
	s := a.subcomponent(key, sub)
	if _, ok := s.Attr(attrOpen); ok {
		s.RemoveAttr(attrOpen)
	} else {
		s.SetAttr(attrOpen, "")
	}
}

func (a *Accordion) subcomponent(key model.TraitKey, sub string) *goquery.Selection {
	return a.subcomponents(key).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr(render.AttrSubcomponent, "") == sub
	}).First()
}

// Expanded reports the expand-all state of a trait
func (a *Accordion) Expanded(key model.TraitKey) bool {
	return a.expandButton(key).AttrOr(attrDataOpen, "false") == "true"
}

func (a *Accordion) expandButton(key model.TraitKey) *goquery.Selection {
	return a.trait(key).ChildrenFiltered("summary").Find("." + ClassExpandAll).First()
}

// ToggleExpandAll flips the expand-all control of a trait and returns the
// new state. The trait group is always left open; other traits are not
// touched.
func (a *Accordion) ToggleExpandAll(key model.TraitKey) bool {
	cat := a.trait(key)
	if cat.Length() == 0 {
		return false
	}

	openAll := !a.Expanded(key)
	glyph := GlyphCollapsed
	if openAll {
		glyph = GlyphExpanded
	}
	btn := a.expandButton(key)
	btn.SetAttr(attrDataOpen, boolAttr(openAll))
	btn.SetText(glyph)

	cat.SetAttr(attrOpen, "")
	a.subcomponents(key).Each(func(_ int, s *goquery.Selection) {
		if openAll {
			s.SetAttr(attrOpen, "")
		} else {
			s.RemoveAttr(attrOpen)
		}
	})
	return openAll
}

// Glyph returns the icon currently shown by the expand-all control
func (a *Accordion) Glyph(key model.TraitKey) string {
	return a.expandButton(key).Text()
}

// State snapshots every group
func (a *Accordion) State() State {
	st := State{
		OpenSubcomponents: make(map[model.TraitKey][]string),
		Expanded:          make(map[model.TraitKey]bool),
	}
	a.traits().Each(func(_ int, s *goquery.Selection) {
		key := model.TraitKey(s.AttrOr(render.AttrTrait, ""))
		if _, ok := s.Attr(attrOpen); ok {
			st.OpenTraits = append(st.OpenTraits, key)
		}
		st.Expanded[key] = a.Expanded(key)
		s.Find("details." + render.ClassSubcomponent).Each(func(_ int, sub *goquery.Selection) {
			if _, ok := sub.Attr(attrOpen); ok {
				st.OpenSubcomponents[key] = append(st.OpenSubcomponents[key], sub.AttrOr(render.AttrSubcomponent, ""))
			}
		})
	})
	return st
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
