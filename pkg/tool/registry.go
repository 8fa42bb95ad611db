package tool

import (
	"sync"

	"github.com/voicegate/voicegate/internal/log"
)

// Registry maps tool names to Tool instances. It is populated at startup
// and read-mostly afterwards; all methods are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register stores a tool under its name. Registering a name twice replaces
// the previous tool; the original registration position is kept so manifest
// order stays stable.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
	log.Info("tool registered", "tool", name)
}

// Get returns the tool registered under name, or (nil, false) if unknown.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Manifests returns the manifests of all registered tools in registration
// order, for inclusion in the model's system instructions.
func (r *Registry) Manifests() []Manifest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	manifests := make([]Manifest, 0, len(r.order))
	for _, name := range r.order {
		manifests = append(manifests, ManifestOf(r.tools[name]))
	}
	return manifests
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
