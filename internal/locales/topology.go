package locales

import (
	"slices"

	"github.com/google/uuid"
)

// Topology is the composed locale snapshot. It is built once during startup
// and is read-only afterwards, so it can be shared across goroutines without
// locking.
type Topology struct {
	locales       map[string]Locale
	order         []string
	nested        []Locale
	defaultLocale string
	localized     bool
	duplicates    []string
}

// Compose flattens the configured tree, pairs every entry with a private
// draft locale and resolves the default locale name. An empty tree yields a
// single "default" locale. Duplicate names overwrite earlier entries; they
// are reported through Duplicates.
func Compose(tree []Locale, defaultLocale string) *Topology {
	if len(tree) == 0 {
		tree = []Locale{{Name: DefaultLocaleName, Label: defaultLocaleLabel}}
	}

	t := &Topology{
		locales: map[string]Locale{},
		nested:  cloneTree(tree),
	}

	flat := map[string]Locale{}
	flatOrder := []string{}
	var flatten func(entries []Locale)
	flatten = func(entries []Locale) {
		for _, entry := range entries {
			if _, exists := flat[entry.Name]; exists {
				t.duplicates = append(t.duplicates, entry.Name)
			} else {
				flatOrder = append(flatOrder, entry.Name)
			}
			flat[entry.Name] = withID(entry.Clone())
			if len(entry.Children) > 0 {
				flatten(entry.Children)
			}
		}
	}
	flatten(t.nested)

	t.localized = len(flat) > 1

	// Drafts are synthesized from the pre-draft snapshot only, so a draft is
	// never drafted again.
	for _, name := range flatOrder {
		live := flat[name]
		t.put(live)

		draft := live.Clone()
		draft.ID = uuid.Nil
		draft.Name = live.Name + DraftSuffix
		draft.Private = true
		draft.Children = nil
		t.put(withID(draft))
	}

	t.defaultLocale = defaultLocale
	if t.defaultLocale == "" {
		t.defaultLocale = DefaultLocaleName
	}
	return t
}

func (t *Topology) put(l Locale) {
	if _, exists := t.locales[l.Name]; !exists {
		t.order = append(t.order, l.Name)
	}
	t.locales[l.Name] = l
}

// Get returns the locale registered under name, live or draft.
func (t *Topology) Get(name string) (Locale, bool) {
	if t == nil {
		return Locale{}, false
	}
	l, ok := t.locales[name]
	if !ok {
		return Locale{}, false
	}
	return l.Clone(), true
}

// Has reports whether name is a known live or draft locale.
func (t *Topology) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.locales[name]
	return ok
}

// Names lists every locale name in composition order; each live locale is
// immediately followed by its draft.
func (t *Topology) Names() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.order)
}

// LiveNames lists the non-draft locale names in composition order.
func (t *Topology) LiveNames() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.order)/2)
	for _, name := range t.order {
		if !t.isSynthesized(name) {
			out = append(out, name)
		}
	}
	return out
}

// isSynthesized reports whether a draft-looking name was paired by Compose
// rather than configured directly.
func (t *Topology) isSynthesized(name string) bool {
	_, ok := t.locales[Liveify(name)]
	return ok && IsDraft(name)
}

// Locales returns a copy of the flattened map, drafts included.
func (t *Topology) Locales() map[string]Locale {
	if t == nil {
		return nil
	}
	out := make(map[string]Locale, len(t.locales))
	for name, l := range t.locales {
		out[name] = l.Clone()
	}
	return out
}

// Nested returns a copy of the configured tree for presentation.
func (t *Topology) Nested() []Locale {
	if t == nil {
		return nil
	}
	return cloneTree(t.nested)
}

// DefaultLocale is the locale assigned when a request carries no hint.
func (t *Topology) DefaultLocale() string {
	if t == nil {
		return DefaultLocaleName
	}
	return t.defaultLocale
}

// Localized reports whether more than one locale was configured.
func (t *Topology) Localized() bool {
	return t != nil && t.localized
}

// Duplicates lists configured names that overwrote an earlier entry.
func (t *Topology) Duplicates() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.duplicates)
}

func cloneTree(tree []Locale) []Locale {
	if tree == nil {
		return nil
	}
	out := make([]Locale, len(tree))
	for i, l := range tree {
		out[i] = l.Clone()
	}
	return out
}
