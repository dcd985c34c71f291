package identity

import (
	"strings"

	"github.com/goliatone/go-cms-workflow/internal/docs"
	"github.com/goliatone/go-cms-workflow/internal/locales"
	"github.com/google/uuid"
)

// TypePredicate reports whether a doc type takes part in the workflow.
type TypePredicate interface {
	Includes(typ string) bool
}

// GuidGenerator mints correlation identities.
type GuidGenerator func() string

// Assigner gives new docs their locale and workflowGuid. It holds no
// mutable state and is safe for concurrent use on different docs.
type Assigner struct {
	defaultLocale string
	included      TypePredicate
	newGuid       GuidGenerator
}

// Option mutates assigner configuration.
type Option func(*Assigner)

// WithGuidGenerator overrides the correlation id generator.
func WithGuidGenerator(generator GuidGenerator) Option {
	return func(a *Assigner) {
		if generator != nil {
			a.newGuid = generator
		}
	}
}

// NewAssigner builds an assigner using the topology's default locale.
func NewAssigner(topology *locales.Topology, included TypePredicate, opts ...Option) *Assigner {
	a := &Assigner{
		defaultLocale: locales.DefaultLocaleName,
		included:      included,
		newGuid:       uuid.NewString,
	}
	if topology != nil {
		a.defaultLocale = topology.DefaultLocale()
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// EnsureLocale assigns a locale and workflowGuid to a doc that has none.
// New docs always start in the draft form of the requested locale, or of
// the default locale when none is requested. Docs that already carry a
// locale, and docs of types outside the workflow, are left untouched.
func (a *Assigner) EnsureLocale(doc *docs.Doc, requested string) {
	if doc == nil || !a.manages(doc.Type) {
		return
	}
	if doc.WorkflowLocale != "" {
		return
	}
	locale := strings.TrimSpace(requested)
	if locale == "" {
		locale = a.defaultLocale
	}
	doc.WorkflowLocale = locales.Draftify(locale)
	doc.WorkflowGuid = a.newGuid()
	doc.WorkflowNew = true
	doc.EnsurePathIndex()
}

// Manages reports whether docs of typ are locale managed.
func (a *Assigner) Manages(typ string) bool {
	return a.manages(typ)
}

func (a *Assigner) manages(typ string) bool {
	if a.included == nil {
		return true
	}
	return a.included.Includes(typ)
}
