package model

// AnsweredQuestion is the live answer state of one rendered question
type AnsweredQuestion struct {
	QuestionID   QuestionID `json:"questionId"`
	Trait        TraitKey   `json:"trait"`
	Subcomponent string     `json:"subcomponent"`
	Value        int        `json:"value"` // 0 when unselected
}

// Selected reports whether an option is currently chosen
func (a AnsweredQuestion) Selected() bool {
	return a.Value > 0
}
