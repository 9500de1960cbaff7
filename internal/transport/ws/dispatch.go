package ws

import (
	"encoding/json"
	"fmt"

	"bigfive/internal/model"
	"bigfive/internal/page"
)

// Recorder receives event and score counts
type Recorder interface {
	Event(eventType string)
	Scored(scope string)
}

// Dispatch applies one client event to a page and returns the reply. Select
// events are acknowledged silently (nil reply) unless they fail.
func Dispatch(p *page.Page, msg *Message, rec Recorder) *Message {
	rec.Event(string(msg.Type))

	switch msg.Type {
	case MsgSelect:
		var in SelectPayload
		if err := decode(msg, &in); err != nil {
			return errorMessage(err)
		}
		if err := p.Select(in.QuestionID, in.Value); err != nil {
			return errorMessage(err)
		}
		return nil

	case MsgSubScore:
		var in TargetPayload
		if err := decode(msg, &in); err != nil {
			return errorMessage(err)
		}
		s, text, err := p.SubcomponentScore(in.Trait, in.Subcomponent)
		if err != nil {
			return errorMessage(err)
		}
		rec.Scored(string(model.ScopeSubcomponent))
		return newMessage(MsgSubResult, ScorePayload{Trait: in.Trait, Subcomponent: in.Subcomponent, Score: s, Text: text})

	case MsgTraitScore:
		var in TargetPayload
		if err := decode(msg, &in); err != nil {
			return errorMessage(err)
		}
		s, text, err := p.TraitScore(in.Trait)
		if err != nil {
			return errorMessage(err)
		}
		rec.Scored(string(model.ScopeTrait))
		return newMessage(MsgTraitResult, ScorePayload{Trait: in.Trait, Score: s, Text: text})

	case MsgToggleTrait:
		var in TargetPayload
		if err := decode(msg, &in); err != nil {
			return errorMessage(err)
		}
		return newMessage(MsgDisclosure, p.ToggleTrait(in.Trait))

	case MsgToggleSubcomponent:
		var in TargetPayload
		if err := decode(msg, &in); err != nil {
			return errorMessage(err)
		}
		return newMessage(MsgDisclosure, p.ToggleSubcomponent(in.Trait, in.Subcomponent))

	case MsgExpandAll:
		var in TargetPayload
		if err := decode(msg, &in); err != nil {
			return errorMessage(err)
		}
		return newMessage(MsgDisclosure, p.ToggleExpandAll(in.Trait))

	case MsgSubmit:
		results := p.Submit()
		rec.Scored(string(model.ScopeInstrument))
		return newMessage(MsgResults, ResultsPayload{Results: results})
	}

	return errorMessage(fmt.Errorf("unknown message type %q", msg.Type))
}

func decode(msg *Message, v interface{}) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%s: invalid payload: %w", msg.Type, err)
	}
	return nil
}

func errorMessage(err error) *Message {
	return newMessage(MsgError, ErrorPayload{Message: err.Error()})
}
