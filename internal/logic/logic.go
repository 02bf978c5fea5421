// Package logic keeps component business logic in plain Go types and
// bridges it into template contexts.
//
// A logic type implements PureLogic and knows nothing about templates. The
// Bridge turns it into a context map, and MacroHelpers exposes the same
// conversion to templates as global functions.
package logic

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// PureLogic is implemented by framework-independent logic types.
type PureLogic interface {
	// ToContext returns the template variables for the current state.
	ToContext() map[string]any
}

// StateToMap converts a JSON-serialisable state value into a map, using the
// value's JSON field names as keys.
func StateToMap(state any) (map[string]any, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("state is not serialisable: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("state %T does not serialise to an object: %w", state, err)
	}
	if out == nil {
		out = map[string]any{}
	}

	return out, nil
}

// ComponentLogic is embedded by logic types that need a stable DOM id.
type ComponentLogic struct {
	ComponentID string
}

// NewComponentLogic returns a ComponentLogic with the given id, or a generated
// "component-xxxxxxxx" id when id is empty.
func NewComponentLogic(id string) ComponentLogic {
	if id == "" {
		id = GenerateID()
	}

	return ComponentLogic{ComponentID: id}
}

// GenerateID returns a random component id.
func GenerateID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")

	return "component-" + hex[:8]
}

// ToContext implements PureLogic.
func (c ComponentLogic) ToContext() map[string]any {
	return map[string]any{"component_id": c.ComponentID}
}

// Factory builds a logic instance from named arguments.
type Factory func(args map[string]any) (PureLogic, error)

// ErrNotRegistered is returned by Create for unknown names.
var ErrNotRegistered = errors.New("logic not registered")

// Bridge connects registered logic types to template contexts. It is safe
// for concurrent use.
type Bridge struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewBridge returns an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{factories: make(map[string]Factory)}
}

// Register stores factory under name, replacing any previous entry.
func (b *Bridge) Register(name string, factory Factory) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.factories[name] = factory
}

// Names returns the registered names in sorted order.
func (b *Bridge) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.factories))
	for name := range b.factories {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Create builds the logic registered under name.
func (b *Bridge) Create(name string, args map[string]any) (PureLogic, error) {
	b.mu.RLock()
	factory, ok := b.factories[name]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}

	return factory(args)
}

// PrepareContext returns the logic's context with extra merged over it.
// The logic's own map is never modified.
func (b *Bridge) PrepareContext(logic PureLogic, extra map[string]any) map[string]any {
	ctx := make(map[string]any)
	if logic != nil {
		for k, v := range logic.ToContext() {
			ctx[k] = v
		}
	}
	for k, v := range extra {
		ctx[k] = v
	}

	return ctx
}

// MacroHelpers returns the functions exposed to templates as globals.
func MacroHelpers() map[string]any {
	return map[string]any{
		"prepare_alpine_data": prepareAlpineData,
		"serialize_state":     serializeState,
	}
}

func prepareAlpineData(v any) map[string]any {
	if l, ok := v.(PureLogic); ok {
		return l.ToContext()
	}

	return map[string]any{}
}

func serializeState(v any) map[string]any {
	m, err := StateToMap(v)
	if err != nil {
		return map[string]any{}
	}

	return m
}
