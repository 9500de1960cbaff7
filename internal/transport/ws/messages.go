package ws

import (
	"encoding/json"

	"bigfive/internal/model"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Client event types
const (
	MsgSelect             MessageType = "select"
	MsgSubScore           MessageType = "sub_score"
	MsgTraitScore         MessageType = "trait_score"
	MsgToggleTrait        MessageType = "toggle_trait"
	MsgToggleSubcomponent MessageType = "toggle_subcomponent"
	MsgExpandAll          MessageType = "expand_all"
	MsgSubmit             MessageType = "submit"
)

// Server reply types
const (
	MsgSubResult   MessageType = "sub_result"
	MsgTraitResult MessageType = "trait_result"
	MsgDisclosure  MessageType = "disclosure"
	MsgResults     MessageType = "results"
	MsgError       MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SelectPayload picks one option of a question
type SelectPayload struct {
	QuestionID model.QuestionID `json:"questionId"`
	Value      int              `json:"value"`
}

// TargetPayload names the trait (and subcomponent) an event applies to
type TargetPayload struct {
	Trait        model.TraitKey `json:"trait"`
	Subcomponent string         `json:"subcomponent,omitempty"`
}

// ScorePayload carries one computed score and its display text
type ScorePayload struct {
	Trait        model.TraitKey `json:"trait"`
	Subcomponent string         `json:"subcomponent,omitempty"`
	Score        model.Score    `json:"score"`
	Text         string         `json:"text"`
}

// ResultsPayload carries the whole-instrument results
type ResultsPayload struct {
	Results []model.TraitResult `json:"results"`
}

// ErrorPayload reports a rejected event
type ErrorPayload struct {
	Message string `json:"message"`
}

func newMessage(t MessageType, payload interface{}) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: t, Payload: data}
}
