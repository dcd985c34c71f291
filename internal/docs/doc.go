package docs

import (
	"maps"
	"strings"

	"github.com/google/uuid"
)

// Holder is anything carrying named field values: a doc, a widget or an
// element of an array field.
type Holder interface {
	FieldValue(name string) any
}

// Doc is a content object together with its workflow identity. Schema
// driven values live in Fields.
type Doc struct {
	ID    uuid.UUID `json:"_id"`
	Type  string    `json:"type"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`

	WorkflowLocale             string `json:"workflowLocale,omitempty"`
	WorkflowGuid               string `json:"workflowGuid,omitempty"`
	WorkflowLocaleForPathIndex string `json:"workflowLocaleForPathIndex,omitempty"`
	// WorkflowNew is set when the identity was minted in this process rather
	// than loaded from storage. It is never persisted.
	WorkflowNew bool `json:"-"`

	Fields map[string]any `json:"fields,omitempty"`
}

var _ Holder = (*Doc)(nil)

// FieldValue returns the value of a schema field.
func (d *Doc) FieldValue(name string) any {
	if d == nil || d.Fields == nil {
		return nil
	}
	return d.Fields[name]
}

// SetField stores a schema field value.
func (d *Doc) SetField(name string, value any) {
	if d.Fields == nil {
		d.Fields = map[string]any{}
	}
	d.Fields[name] = value
}

// IsPathAddressable reports whether the slug is an absolute path.
func (d *Doc) IsPathAddressable() bool {
	return d != nil && strings.HasPrefix(d.Slug, "/")
}

// EnsurePathIndex recomputes the shadow locale used by the sparse unique
// (locale, slug) index. Only path addressable docs carry it.
func (d *Doc) EnsurePathIndex() {
	if d == nil {
		return
	}
	if d.IsPathAddressable() {
		d.WorkflowLocaleForPathIndex = d.WorkflowLocale
		return
	}
	d.WorkflowLocaleForPathIndex = ""
}

// Clone returns a shallow copy of the doc with its own Fields map.
func (d *Doc) Clone() *Doc {
	if d == nil {
		return nil
	}
	out := *d
	out.Fields = maps.Clone(d.Fields)
	return &out
}

// Item is a loosely typed sub object: a widget, an area or an array element.
type Item map[string]any

var _ Holder = Item(nil)

const (
	// TypeKey holds the type discriminator of widgets and areas.
	TypeKey = "type"
	// IDKey holds the identifier of a widget.
	IDKey = "_id"
)

// FieldValue returns the value stored under name.
func (i Item) FieldValue(name string) any {
	if i == nil {
		return nil
	}
	return i[name]
}

// Type returns the type discriminator, if any.
func (i Item) Type() string {
	value, _ := i[TypeKey].(string)
	return value
}

// ID returns the identifier, if any.
func (i Item) ID() string {
	value, _ := i[IDKey].(string)
	return value
}

// AsItem converts map shaped values into an Item.
func AsItem(value any) (Item, bool) {
	switch typed := value.(type) {
	case Item:
		return typed, typed != nil
	case map[string]any:
		return Item(typed), typed != nil
	default:
		return nil, false
	}
}

// Items converts slice shaped values into Items. Elements that are not maps
// are dropped.
func Items(value any) []Item {
	switch typed := value.(type) {
	case []Item:
		return typed
	case []map[string]any:
		out := make([]Item, 0, len(typed))
		for _, entry := range typed {
			if entry != nil {
				out = append(out, Item(entry))
			}
		}
		return out
	case []any:
		out := make([]Item, 0, len(typed))
		for _, entry := range typed {
			if item, ok := AsItem(entry); ok {
				out = append(out, item)
			}
		}
		return out
	default:
		return nil
	}
}
