package model

// TraitKey identifies one of the five personality traits
type TraitKey string

const (
	TraitOpenness          TraitKey = "O"
	TraitConscientiousness TraitKey = "C"
	TraitExtraversion      TraitKey = "E"
	TraitAgreeableness     TraitKey = "A"
	TraitNeuroticism       TraitKey = "N"
)

// TraitOrder is the fixed order results are reported in
var TraitOrder = []TraitKey{
	TraitOpenness,
	TraitConscientiousness,
	TraitExtraversion,
	TraitAgreeableness,
	TraitNeuroticism,
}

var traitLabels = map[TraitKey]string{
	TraitOpenness:          "Openness",
	TraitConscientiousness: "Conscientiousness",
	TraitExtraversion:      "Extraversion",
	TraitAgreeableness:     "Agreeableness",
	TraitNeuroticism:       "Neuroticism",
}

// Valid reports whether k belongs to the trait domain
func (k TraitKey) Valid() bool {
	_, ok := traitLabels[k]
	return ok
}

// Label returns the display label, or the raw key for unknown traits
func (k TraitKey) Label() string {
	if l, ok := traitLabels[k]; ok {
		return l
	}
	return string(k)
}
