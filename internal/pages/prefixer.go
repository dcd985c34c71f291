package pages

import (
	"strings"

	"github.com/goliatone/go-cms-workflow/internal/docs"
	"github.com/goliatone/go-cms-workflow/internal/locales"
	"github.com/goliatone/go-slug"
)

// PagePredicate reports whether docs of a type are pages.
type PagePredicate interface {
	IsPage(typ string) bool
}

// Prefixer makes sure a page slug starts with its locale prefix. It runs
// right before a page is stored and is safe for concurrent use.
type Prefixer struct {
	prefixes *locales.PrefixRegistry
	pages    PagePredicate
}

// NewPrefixer builds a prefixer.
func NewPrefixer(prefixes *locales.PrefixRegistry, pages PagePredicate) *Prefixer {
	return &Prefixer{prefixes: prefixes, pages: pages}
}

// Apply rewrites doc.Slug to carry the prefix of the doc's locale. It does
// nothing when no prefix is registered, the doc is not a page or the doc
// has no locale yet.
//
// A slug whose first segment is some other value gets the prefix prepended
// as is, so "/fr/about" in locale en becomes "/en/fr/about". A page with
// neither slug nor title becomes the prefix root, e.g. "/en/".
func (p *Prefixer) Apply(doc *docs.Doc) {
	if doc == nil || doc.WorkflowLocale == "" {
		return
	}
	if p.pages == nil || !p.pages.IsPage(doc.Type) {
		return
	}
	prefix, ok := p.prefixes.Prefix(doc.WorkflowLocale)
	if !ok {
		return
	}

	segment := locales.FirstSegment(doc.Slug)
	switch {
	case segment == "":
		doc.Slug = prefix + "/" + slugify(doc.Title)
	case "/"+segment == prefix:
	default:
		doc.Slug = prefix + doc.Slug
	}
	doc.EnsurePathIndex()
}

func slugify(title string) string {
	normalized, err := slug.Normalize(strings.TrimSpace(title))
	if err != nil {
		return ""
	}
	return normalized
}
