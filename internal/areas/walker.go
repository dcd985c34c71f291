package areas

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-cms-workflow/internal/docs"
)

const (
	// AreaType is the type discriminator of an area.
	AreaType = "area"
	// ItemsKey holds the widgets of an area.
	ItemsKey = "items"
)

// VisitFunc receives every area found in a doc and its dot path.
type VisitFunc func(area docs.Item, dotPath string)

// Walker yields every area nested anywhere within a doc.
type Walker interface {
	Walk(doc *docs.Doc, visit VisitFunc)
}

// DefaultWalker walks map and slice shaped field values, descending into
// widgets so areas nested in containers are found too. Map keys are visited
// in sorted order.
type DefaultWalker struct{}

var _ Walker = DefaultWalker{}

// Walk calls visit for each area in doc, parents before children.
func (DefaultWalker) Walk(doc *docs.Doc, visit VisitFunc) {
	if doc == nil || visit == nil {
		return
	}
	walkMap(doc.Fields, "", visit)
}

// NewArea builds an area holding the given widgets.
func NewArea(widgets ...docs.Item) docs.Item {
	items := make([]any, 0, len(widgets))
	for _, widget := range widgets {
		items = append(items, map[string]any(widget))
	}
	return docs.Item{docs.TypeKey: AreaType, ItemsKey: items}
}

// IsArea reports whether value is an area.
func IsArea(value any) (docs.Item, bool) {
	item, ok := docs.AsItem(value)
	if !ok || item.Type() != AreaType {
		return nil, false
	}
	return item, true
}

// Widgets returns the widgets held by an area.
func Widgets(area docs.Item) []docs.Item {
	return docs.Items(area[ItemsKey])
}

// CollectWidgets flattens the widgets of every area in doc into one slice,
// in walk order.
func CollectWidgets(walker Walker, doc *docs.Doc) []docs.Item {
	if walker == nil {
		walker = DefaultWalker{}
	}
	var widgets []docs.Item
	walker.Walk(doc, func(area docs.Item, _ string) {
		widgets = append(widgets, Widgets(area)...)
	})
	return widgets
}

func walkValue(value any, path string, visit VisitFunc) {
	if area, ok := IsArea(value); ok {
		visit(area, path)
		for i, widget := range Widgets(area) {
			walkMap(widget, join(path, ItemsKey, strconv.Itoa(i)), visit)
		}
		return
	}
	if item, ok := docs.AsItem(value); ok {
		walkMap(item, path, visit)
		return
	}
	for i, item := range docs.Items(value) {
		walkMap(item, join(path, strconv.Itoa(i)), visit)
	}
}

func walkMap(fields map[string]any, path string, visit VisitFunc) {
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		walkValue(fields[key], join(path, key), visit)
	}
}

func join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, ".")
}

// Stem drops the last component of a dot path: "a.b.c" becomes "a.b".
func Stem(dotPath string) string {
	idx := strings.LastIndexByte(dotPath, '.')
	if idx < 0 {
		return ""
	}
	return dotPath[:idx]
}

// Index parses the last component of a dot path as a number: "a.b.5" gives 5.
func Index(dotPath string) (int, bool) {
	last := dotPath
	if idx := strings.LastIndexByte(dotPath, '.'); idx >= 0 {
		last = dotPath[idx+1:]
	}
	n, err := strconv.Atoi(last)
	if err != nil {
		return 0, false
	}
	return n, true
}
