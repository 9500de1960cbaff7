package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Option is one selectable answer of a question
type Option struct {
	Value int    `json:"value"` // 1-4
	Text  string `json:"text"`
}

// QuestionID is the stable identifier of a question. The schema may carry
// it as a JSON number or string; it is always handled as a string.
type QuestionID string

func (id *QuestionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = QuestionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("question id must be a string or number: %w", err)
	}
	*id = QuestionID(n.String())
	return nil
}

func (id QuestionID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Question is a single item of a subcomponent
type Question struct {
	ID      QuestionID `json:"id"`
	Text    string     `json:"text"`
	Options []Option   `json:"options"`
}

// Subcomponent (facet) groups questions under one trait
type Subcomponent struct {
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// TraitSection is the schema entry for one trait key
type TraitSection struct {
	Key           TraitKey       `json:"-"`
	Subcomponents []Subcomponent `json:"subcomponents"`
}

// Schema is the parsed question document. Traits keep the key order of
// the source document, which is the render order.
type Schema struct {
	Traits []TraitSection
}

// QuestionCount returns the number of questions across all traits
func (s *Schema) QuestionCount() int {
	n := 0
	for _, t := range s.Traits {
		for _, sub := range t.Subcomponents {
			n += len(sub.Questions)
		}
	}
	return n
}

// UnmarshalJSON decodes the trait-keyed object while keeping key order.
// Shape checks beyond JSON syntax belong to the loader.
func (s *Schema) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("schema must be a JSON object keyed by trait")
	}

	var traits []TraitSection
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var section TraitSection
		if err := dec.Decode(&section); err != nil {
			return fmt.Errorf("trait %q: %w", key, err)
		}
		section.Key = TraitKey(key)
		traits = append(traits, section)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	s.Traits = traits
	return nil
}

// MarshalJSON writes the schema back in its source shape and order
func (s Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range s.Traits {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(t.Key))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		body, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
