// Package registry holds the components discovered by the scanner and
// analyses the template dependency graph between them.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/conneroisu/zen-temple/internal/types"
)

// ComponentRegistry manages all discovered components
type ComponentRegistry struct {
	components map[string]*types.ComponentInfo
	mutex      sync.RWMutex
	watchers   []chan types.ComponentEvent
}

// NewComponentRegistry creates a new component registry
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		components: make(map[string]*types.ComponentInfo),
		watchers:   make([]chan types.ComponentEvent, 0),
	}
}

// Register adds or updates a component in the registry
func (r *ComponentRegistry) Register(component *types.ComponentInfo) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := types.EventTypeAdded
	if _, exists := r.components[component.Name]; exists {
		eventType = types.EventTypeUpdated
	}

	r.components[component.Name] = component
	r.notify(types.ComponentEvent{
		Type:      eventType,
		Component: component,
		Timestamp: time.Now(),
	})
}

// notify must be called with the mutex held.
func (r *ComponentRegistry) notify(event types.ComponentEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}

// Get retrieves a component by name
func (r *ComponentRegistry) Get(name string) (*types.ComponentInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	component, exists := r.components[name]

	return component, exists
}

// GetAll returns all registered components sorted by name
func (r *ComponentRegistry) GetAll() []*types.ComponentInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*types.ComponentInfo, 0, len(r.components))
	for _, component := range r.components {
		result = append(result, component)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result
}

// Remove removes a component from the registry
func (r *ComponentRegistry) Remove(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	component, exists := r.components[name]
	if !exists {
		return
	}

	delete(r.components, name)
	r.notify(types.ComponentEvent{
		Type:      types.EventTypeRemoved,
		Component: component,
		Timestamp: time.Now(),
	})
}

// RemoveByPath removes every component backed by the given file.
func (r *ComponentRegistry) RemoveByPath(path string) {
	for _, c := range r.GetAll() {
		if c.FilePath == path {
			r.Remove(c.Name)
		}
	}
}

// Watch returns a channel that receives component events
func (r *ComponentRegistry) Watch() <-chan types.ComponentEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan types.ComponentEvent, 100)
	r.watchers = append(r.watchers, ch)

	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *ComponentRegistry) UnWatch(ch <-chan types.ComponentEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)

			break
		}
	}
}

// Count returns the number of registered components
func (r *ComponentRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.components)
}

// GetDependents returns components that depend on the given component
func (r *ComponentRegistry) GetDependents(name string) []*types.ComponentInfo {
	var dependents []*types.ComponentInfo
	for _, component := range r.GetAll() {
		for _, dep := range component.Dependencies {
			if dep == name {
				dependents = append(dependents, component)

				break
			}
		}
	}

	return dependents
}

// GetDependencyGraph returns the full dependency graph
func (r *ComponentRegistry) GetDependencyGraph() map[string][]string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	graph := make(map[string][]string, len(r.components))
	for name, component := range r.components {
		graph[name] = append([]string(nil), component.Dependencies...)
	}

	return graph
}

// DetectCircularDependencies returns each dependency cycle found, as a path
// that starts and ends with the same component.
func (r *ComponentRegistry) DetectCircularDependencies() [][]string {
	return detectCycles(r.GetDependencyGraph())
}

// MissingDependencies maps each component to the dependencies that are not
// registered.
func (r *ComponentRegistry) MissingDependencies() map[string][]string {
	graph := r.GetDependencyGraph()
	missing := make(map[string][]string)
	for name, deps := range graph {
		for _, dep := range deps {
			if _, ok := graph[dep]; !ok {
				missing[name] = append(missing[name], dep)
			}
		}
	}

	return missing
}
