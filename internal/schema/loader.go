package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bigfive/internal/model"

	"go.uber.org/zap"
)

var (
	ErrSchemaUnavailable = errors.New("schema unavailable")
	ErrSchemaMalformed   = errors.New("schema malformed")
)

// Source fetches the raw schema document from some transport
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// SourceFunc adapts a plain function to Source
type SourceFunc func(ctx context.Context) ([]byte, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]byte, error) {
	return f(ctx)
}

// Observer is notified of every load outcome ("ok", "unavailable", "malformed")
type Observer interface {
	SchemaLoaded(result string)
}

// Loader turns a Source into a fully usable Schema or a failure
type Loader struct {
	source   Source
	logger   *zap.Logger
	observer Observer
}

// NewLoader creates a loader over source
func NewLoader(source Source, logger *zap.Logger) *Loader {
	return &Loader{
		source: source,
		logger: logger,
	}
}

// SetObserver attaches a load outcome observer
func (l *Loader) SetObserver(o Observer) {
	l.observer = o
}

// Load fetches and parses the schema. Errors wrap ErrSchemaUnavailable or
// ErrSchemaMalformed; no partial schema is ever returned.
func (l *Loader) Load(ctx context.Context) (*model.Schema, error) {
	payload, err := l.source.Fetch(ctx)
	if err != nil {
		l.observe("unavailable")
		l.logger.Error("schema fetch failed", zap.Error(err))
		if errors.Is(err, ErrSchemaUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSchemaUnavailable, err)
	}

	s, err := Parse(payload)
	if err != nil {
		l.observe("malformed")
		l.logger.Error("schema parse failed", zap.Error(err))
		return nil, err
	}

	l.observe("ok")
	l.logger.Debug("schema loaded",
		zap.Int("traits", len(s.Traits)),
		zap.Int("questions", s.QuestionCount()))
	return s, nil
}

func (l *Loader) observe(result string) {
	if l.observer != nil {
		l.observer.SchemaLoaded(result)
	}
}

// Parse decodes payload and checks it has the expected shape
func Parse(payload []byte) (*model.Schema, error) {
	var s model.Schema
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMalformed, err)
	}
	if err := checkShape(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMalformed, err)
	}
	return &s, nil
}

func checkShape(s *model.Schema) error {
	if len(s.Traits) == 0 {
		return errors.New("no traits")
	}

	seen := make(map[model.TraitKey]bool)
	ids := make(map[model.QuestionID]string)
	for _, t := range s.Traits {
		if !t.Key.Valid() {
			return fmt.Errorf("unknown trait key %q", t.Key)
		}
		if seen[t.Key] {
			return fmt.Errorf("duplicate trait key %q", t.Key)
		}
		seen[t.Key] = true

		if t.Subcomponents == nil {
			return fmt.Errorf("trait %s: missing subcomponents", t.Key)
		}
		names := make(map[string]bool)
		for i, sub := range t.Subcomponents {
			if sub.Name == "" {
				return fmt.Errorf("trait %s: subcomponent %d has no name", t.Key, i)
			}
			if names[sub.Name] {
				return fmt.Errorf("trait %s: duplicate subcomponent %q", t.Key, sub.Name)
			}
			names[sub.Name] = true

			if sub.Questions == nil {
				return fmt.Errorf("%s/%s: missing questions", t.Key, sub.Name)
			}
			for j, q := range sub.Questions {
				if q.ID == "" {
					return fmt.Errorf("%s/%s: question %d has no id", t.Key, sub.Name, j)
				}
				if where, dup := ids[q.ID]; dup {
					return fmt.Errorf("%s/%s: question id %s already used in %s", t.Key, sub.Name, q.ID, where)
				}
				ids[q.ID] = string(t.Key) + "/" + sub.Name
				if len(q.Options) == 0 {
					return fmt.Errorf("%s/%s: question %s has no options", t.Key, sub.Name, q.ID)
				}
				for _, opt := range q.Options {
					if opt.Value < 1 || opt.Value > 4 {
						return fmt.Errorf("%s/%s: question %s option value %d out of range 1-4",
							t.Key, sub.Name, q.ID, opt.Value)
					}
				}
			}
		}
	}
	return nil
}
