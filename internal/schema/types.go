package schema

import "strings"

// BaseExcludedTypes are never managed by the workflow. Users and groups have
// security implications when localized; a public representation should be a
// separate type joined to them.
var BaseExcludedTypes = []string{"user", "group"}

// TypeFilter answers whether a doc type takes part in the workflow. It is a
// precomputed set built once from configuration.
type TypeFilter struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

// NewTypeFilter builds a filter. An empty include list admits every type
// that is not excluded. BaseExcludedTypes are always excluded.
func NewTypeFilter(include, exclude []string) TypeFilter {
	filter := TypeFilter{exclude: toSet(append(append([]string{}, BaseExcludedTypes...), exclude...))}
	if len(include) > 0 {
		filter.include = toSet(include)
	}
	return filter
}

// Includes reports whether docs of typ are locale managed.
func (f TypeFilter) Includes(typ string) bool {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return false
	}
	if _, excluded := f.exclude[typ]; excluded {
		return false
	}
	if f.include == nil {
		return true
	}
	_, included := f.include[typ]
	return included
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}
