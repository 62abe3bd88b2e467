// Package registry provides the named tool table consulted by the engine.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/sluice/pkg/domain"
)

// Registry manages the available tools. It is populated at process
// setup and read-mostly afterwards.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]domain.ToolFunc
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		tools: make(map[string]domain.ToolFunc),
	}
}

// Register adds a tool to the registry.
// If a tool with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn domain.ToolFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[name] = fn
}

// Resolve looks up a tool by name.
// Returns domain.ErrToolNotFound if the name was never registered.
func (r *Registry) Resolve(name string) (domain.ToolFunc, error) {
	r.mu.RLock()
	fn, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrToolNotFound, name)
	}
	return fn, nil
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
