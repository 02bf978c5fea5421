package logic

import (
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type todoState struct {
	Todos   []string `json:"todos"`
	NewTodo string   `json:"new_todo"`
}

func TestStateToMap(t *testing.T) {
	m, err := StateToMap(todoState{Todos: []string{"a"}, NewTodo: "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"todos": []any{"a"}, "new_todo": "b"}, m)

	_, err = StateToMap(make(chan int))
	assert.Error(t, err)

	_, err = StateToMap([]int{1, 2})
	assert.Error(t, err)

	m, err = StateToMap(nil)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestComponentLogicID(t *testing.T) {
	pattern := regexp.MustCompile(`^component-[0-9a-f]{8}$`)

	generated := NewComponentLogic("")
	assert.Regexp(t, pattern, generated.ComponentID)
	assert.NotEqual(t, generated.ComponentID, NewComponentLogic("").ComponentID)

	fixed := NewComponentLogic("cart")
	assert.Equal(t, map[string]any{"component_id": "cart"}, fixed.ToContext())
}

func TestBridge(t *testing.T) {
	b := NewBridge()
	b.Register("counter", CounterFactory)

	assert.Equal(t, []string{"counter"}, b.Names())

	logic, err := b.Create("counter", map[string]any{"initial": 5, "step": 2})
	require.NoError(t, err)

	ctx := b.PrepareContext(logic, map[string]any{"title": "Clicks", "count": 99})
	assert.Equal(t, 99, ctx["count"], "extra context wins")
	assert.Equal(t, "Clicks", ctx["title"])
	assert.Equal(t, 2, ctx["step"])
	assert.Contains(t, ctx, "component_id")

	_, err = b.Create("missing", nil)
	assert.True(t, errors.Is(err, ErrNotRegistered))

	_, err = b.Create("counter", map[string]any{"initial": "zero"})
	assert.Error(t, err)

	assert.Empty(t, b.PrepareContext(nil, nil))
}

func TestBridgeConcurrentRegister(t *testing.T) {
	b := NewBridge()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Register("counter", CounterFactory)
			_, _ = b.Create("counter", nil)
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"counter"}, b.Names())
}

func TestCounterLogic(t *testing.T) {
	c := NewCounterLogic(1, 0)
	assert.Equal(t, 2, c.Increment())
	assert.Equal(t, 1, c.Decrement())
	assert.True(t, c.CanDecrement())
	assert.Equal(t, 0, c.Decrement())
	assert.False(t, c.CanDecrement())
	assert.Equal(t, 1, c.Reset())
	assert.Equal(t, []int{1, 2, 1, 0, 1}, c.History())

	h := c.History()
	h[0] = 42
	assert.Equal(t, 1, c.History()[0])

	ctx := c.ToContext()
	assert.Equal(t, 1, ctx["count"])
	assert.Equal(t, true, ctx["can_decrement"])
}

func TestMacroHelpers(t *testing.T) {
	helpers := MacroHelpers()
	require.Contains(t, helpers, "prepare_alpine_data")
	require.Contains(t, helpers, "serialize_state")

	prepare := helpers["prepare_alpine_data"].(func(any) map[string]any)
	assert.Equal(t, 3, prepare(NewCounterLogic(3, 1))["count"])
	assert.Empty(t, prepare("not logic"))

	serialize := helpers["serialize_state"].(func(any) map[string]any)
	assert.Equal(t, "x", serialize(todoState{NewTodo: "x"})["new_todo"])
	assert.Empty(t, serialize(42))
}
