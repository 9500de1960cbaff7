package model

// ScoreScope names the granularity a score was computed at
type ScoreScope string

const (
	ScopeSubcomponent ScoreScope = "subcomponent"
	ScopeTrait        ScoreScope = "trait"
	ScopeInstrument   ScoreScope = "instrument"
)

// Score is a derived, never cached mean over selected answers
type Score struct {
	Scope    ScoreScope `json:"scope"`
	Count    int        `json:"count"`
	Mean     float64    `json:"mean"`     // native 1-4 scale
	Rescaled float64    `json:"rescaled"` // 1-5 scale
}

// Empty reports the "no answers" sentinel
func (s Score) Empty() bool {
	return s.Count == 0
}

// TraitResult is one labeled entry of the whole-instrument result
type TraitResult struct {
	Trait    TraitKey `json:"trait"`
	Label    string   `json:"label"`
	Score    Score    `json:"score"`
	Text     string   `json:"text"`
	BarWidth string   `json:"barWidth"`
}
