package npc

import (
	"fmt"
	"sort"
	"strings"
)

// Registry holds every known enemy template by ID. It is built once at
// startup from content files and read for the rest of the process.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry builds a registry from templates, validating each and
// rejecting duplicate IDs.
func NewRegistry(templates []Template) (*Registry, error) {
	r := &Registry{templates: make(map[string]*Template, len(templates))}
	for i := range templates {
		t := templates[i]
		if err := t.Validate(); err != nil {
			return nil, err
		}
		id := strings.ToLower(t.ID)
		if _, exists := r.templates[id]; exists {
			return nil, fmt.Errorf("npc: duplicate template id %q", t.ID)
		}
		r.templates[id] = &t
	}
	return r, nil
}

// Get returns the template with the given ID.
//
// Postcondition: Returns (tmpl, true) if found, or (nil, false) otherwise.
func (r *Registry) Get(id string) (*Template, bool) {
	t, ok := r.templates[strings.ToLower(id)]
	return t, ok
}

// IDs returns every template ID in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	return len(r.templates)
}

// Spawn creates a live instance of the template at its default level.
func (r *Registry) Spawn(id string) (*Instance, error) {
	t, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("npc: unknown template %q", id)
	}
	return NewInstance(t, t.Level), nil
}

// SpawnAt creates a live instance of the template at the given level.
//
// Precondition: level >= 1.
func (r *Registry) SpawnAt(id string, level int) (*Instance, error) {
	if level < 1 {
		return nil, fmt.Errorf("npc: spawn level must be >= 1, got %d", level)
	}
	t, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("npc: unknown template %q", id)
	}
	return NewInstance(t, level), nil
}
