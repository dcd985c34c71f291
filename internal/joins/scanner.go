package joins

import (
	"github.com/goliatone/go-cms-workflow/internal/areas"
	"github.com/goliatone/go-cms-workflow/internal/docs"
	"github.com/goliatone/go-cms-workflow/internal/schema"
)

// Join describes one forward relationship field found on a doc, a widget or
// an array element, together with its current value.
type Join struct {
	Holder docs.Holder
	Field  schema.Field
	Value  any
}

// TypePredicate reports whether a doc type takes part in the workflow.
type TypePredicate interface {
	Includes(typ string) bool
}

// Scanner discovers the forward relationships held by a doc. It is safe for
// concurrent use once built.
type Scanner struct {
	registry *schema.Registry
	included TypePredicate
	walker   areas.Walker
}

// Option mutates scanner configuration.
type Option func(*Scanner)

// WithWalker overrides the area walker.
func WithWalker(walker areas.Walker) Option {
	return func(s *Scanner) {
		if walker != nil {
			s.walker = walker
		}
	}
}

// NewScanner builds a scanner over the registered doc and widget schemas.
func NewScanner(registry *schema.Registry, included TypePredicate, opts ...Option) *Scanner {
	s := &Scanner{
		registry: registry,
		included: included,
		walker:   areas.DefaultWalker{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// FindJoins returns the joins of the doc's own schema followed by the joins
// of every widget in its areas.
func (s *Scanner) FindJoins(doc *docs.Doc) []Join {
	if doc == nil {
		return nil
	}
	return append(s.FindInOwnSchema(doc), s.FindInNestedAreas(doc)...)
}

// FindInOwnSchema scans the doc against the schema registered for its type.
// Docs of an unregistered type have no joins.
func (s *Scanner) FindInOwnSchema(doc *docs.Doc) []Join {
	manager, ok := s.registry.Doc(doc.Type)
	if !ok {
		return nil
	}
	return s.FindInSchema(doc, manager.Schema)
}

// FindInSchema returns the join fields of holder whose target type is
// included, followed by the joins found inside array fields. Within each
// group results follow schema declaration order.
func (s *Scanner) FindInSchema(holder docs.Holder, fields schema.Schema) []Join {
	var direct, nested []Join
	for _, field := range fields {
		switch {
		case field.Type.IsJoin():
			if s.includes(field.WithType) {
				direct = append(direct, Join{
					Holder: holder,
					Field:  field,
					Value:  holder.FieldValue(field.Name),
				})
			}
		case field.Type == schema.KindArray:
			for _, element := range docs.Items(holder.FieldValue(field.Name)) {
				nested = append(nested, s.FindInSchema(element, field.Schema)...)
			}
		}
	}
	return append(direct, nested...)
}

// FindInNestedAreas scans every widget of every area in doc. Widgets of an
// unregistered type are skipped.
func (s *Scanner) FindInNestedAreas(doc *docs.Doc) []Join {
	var out []Join
	for _, widget := range areas.CollectWidgets(s.walker, doc) {
		manager, ok := s.registry.Widget(widget.Type())
		if !ok {
			continue
		}
		out = append(out, s.FindInSchema(widget, manager.Schema)...)
	}
	return out
}

func (s *Scanner) includes(typ string) bool {
	if s.included == nil {
		return true
	}
	return s.included.Includes(typ)
}
