package schema

// Kind is the type tag of a schema field.
type Kind string

const (
	KindJoinByOne   Kind = "joinByOne"
	KindJoinByArray Kind = "joinByArray"
	KindArray       Kind = "array"
	KindArea        Kind = "area"
	KindSingleton   Kind = "singleton"
	KindString      Kind = "string"
	KindSlug        Kind = "slug"
	KindBoolean     Kind = "boolean"
	KindInteger     Kind = "integer"
	KindFloat       Kind = "float"
	KindSelect      Kind = "select"
	KindTags        Kind = "tags"
	KindDate        Kind = "date"
	KindAttachment  Kind = "attachment"
)

// IsJoin reports whether the kind is a forward relationship.
func (k Kind) IsJoin() bool {
	return k == KindJoinByOne || k == KindJoinByArray
}

// Field describes one entry of a schema. WithType names the target type of
// a join; Schema is the element schema of an array field.
type Field struct {
	Name     string `json:"name"`
	Type     Kind   `json:"type"`
	Label    string `json:"label,omitempty"`
	WithType string `json:"withType,omitempty"`
	Schema   Schema `json:"schema,omitempty"`
}

// Schema is an ordered list of fields.
type Schema []Field
