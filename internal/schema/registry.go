package schema

import (
	"slices"
	"strings"
	"sync"
)

// DocManager describes a doc type: its schema and whether its docs are pages.
type DocManager struct {
	Type   string `json:"type"`
	Page   bool   `json:"page,omitempty"`
	Schema Schema `json:"schema"`
}

// WidgetManager describes a widget type that may appear inside areas.
type WidgetManager struct {
	Type   string `json:"type"`
	Schema Schema `json:"schema"`
}

// Registry stores doc and widget managers by type name.
type Registry struct {
	mu      sync.RWMutex
	docs    map[string]DocManager
	widgets map[string]WidgetManager
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		docs:    make(map[string]DocManager),
		widgets: make(map[string]WidgetManager),
	}
}

// RegisterDoc adds or replaces a doc manager.
func (r *Registry) RegisterDoc(manager DocManager) {
	manager.Type = strings.TrimSpace(manager.Type)
	key := canonicalKey(manager.Type)
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.docs == nil {
		r.docs = make(map[string]DocManager)
	}
	r.docs[key] = manager
}

// RegisterWidget adds or replaces a widget manager.
func (r *Registry) RegisterWidget(manager WidgetManager) {
	manager.Type = strings.TrimSpace(manager.Type)
	key := canonicalKey(manager.Type)
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.widgets == nil {
		r.widgets = make(map[string]WidgetManager)
	}
	r.widgets[key] = manager
}

// Doc resolves the manager for a doc type.
func (r *Registry) Doc(typ string) (DocManager, bool) {
	if r == nil {
		return DocManager{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	manager, ok := r.docs[canonicalKey(typ)]
	return manager, ok
}

// Widget resolves the manager for a widget type.
func (r *Registry) Widget(typ string) (WidgetManager, bool) {
	if r == nil {
		return WidgetManager{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	manager, ok := r.widgets[canonicalKey(typ)]
	return manager, ok
}

// IsPage reports whether docs of typ are pages.
func (r *Registry) IsPage(typ string) bool {
	manager, ok := r.Doc(typ)
	return ok && manager.Page
}

// DocTypes lists registered doc types in sorted order.
func (r *Registry) DocTypes() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.docs))
	for _, manager := range r.docs {
		out = append(out, manager.Type)
	}
	slices.Sort(out)
	return out
}

// WidgetTypes lists registered widget types in sorted order.
func (r *Registry) WidgetTypes() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.widgets))
	for _, manager := range r.widgets {
		out = append(out, manager.Type)
	}
	slices.Sort(out)
	return out
}

func canonicalKey(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
