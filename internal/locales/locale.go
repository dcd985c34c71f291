package locales

import (
	"strings"

	"github.com/goliatone/go-cms-workflow/internal/ids"
	"github.com/google/uuid"
)

const (
	// DraftSuffix marks the private draft pairing of a locale.
	DraftSuffix = "-draft"

	// DefaultLocaleName is used when no default locale is configured.
	DefaultLocaleName  = "default"
	defaultLocaleLabel = "Workflow"
)

// Locale is a named content variant. Children are only meaningful in the
// configured tree; draft locales never carry children.
type Locale struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Private  bool      `json:"private,omitempty"`
	Children []Locale  `json:"children,omitempty"`
}

// Clone returns a deep copy of the locale, including its sub-tree.
func (l Locale) Clone() Locale {
	out := l
	if l.Children != nil {
		out.Children = make([]Locale, len(l.Children))
		for i, child := range l.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// IsDraft reports whether the locale name carries the draft suffix.
func IsDraft(name string) bool {
	return strings.HasSuffix(name, DraftSuffix)
}

// Liveify strips a trailing draft suffix.
func Liveify(name string) string {
	return strings.TrimSuffix(name, DraftSuffix)
}

// Draftify returns the draft pairing of a locale name. Names that are
// already drafts are returned unchanged.
func Draftify(name string) string {
	if IsDraft(name) {
		return name
	}
	return name + DraftSuffix
}

func withID(l Locale) Locale {
	if l.ID == uuid.Nil {
		l.ID = ids.LocaleUUID(l.Name)
	}
	return l
}
