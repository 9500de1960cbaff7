package scoring

import "bigfive/internal/model"

// Values collects the selected values of answers accepted by keep
func Values(answers []model.AnsweredQuestion, keep func(model.AnsweredQuestion) bool) []int {
	var values []int
	for _, a := range answers {
		if a.Selected() && keep(a) {
			values = append(values, a.Value)
		}
	}
	return values
}

// ForSubcomponent scores only the questions rendered under one subcomponent
func ForSubcomponent(answers []model.AnsweredQuestion, trait model.TraitKey, sub string) model.Score {
	return Score(model.ScopeSubcomponent, Values(answers, func(a model.AnsweredQuestion) bool {
		return a.Trait == trait && a.Subcomponent == sub
	}))
}

// ForTrait scores every question tagged with trait. Each question weighs
// the same regardless of how many siblings its subcomponent has.
func ForTrait(answers []model.AnsweredQuestion, trait model.TraitKey) model.Score {
	return Score(model.ScopeTrait, Values(answers, func(a model.AnsweredQuestion) bool {
		return a.Trait == trait
	}))
}

// ForInstrument returns one labeled result per trait of the fixed domain
func ForInstrument(answers []model.AnsweredQuestion) []model.TraitResult {
	results := make([]model.TraitResult, 0, len(model.TraitOrder))
	for _, key := range model.TraitOrder {
		s := ForTrait(answers, key)
		s.Scope = model.ScopeInstrument
		results = append(results, model.TraitResult{
			Trait:    key,
			Label:    key.Label(),
			Score:    s,
			Text:     InstrumentText(key, s),
			BarWidth: BarWidth(s),
		})
	}
	return results
}

// SubcomponentText is the text shown after a subcomponent score request
func SubcomponentText(s model.Score) string {
	return Text("Subcategory Score", s)
}

// TraitText is the text shown after a trait score request
func TraitText(trait model.TraitKey, s model.Score) string {
	return Text(trait.Label()+" Score", s)
}

// InstrumentText labels one trait of the submitted results
func InstrumentText(trait model.TraitKey, s model.Score) string {
	if s.Empty() {
		return trait.Label() + ": " + Placeholder
	}
	return Text(trait.Label(), s)
}
