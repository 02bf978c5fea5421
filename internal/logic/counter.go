package logic

import "fmt"

// CounterLogic is the logic behind the scaffolded counter component.
type CounterLogic struct {
	ComponentLogic
	value   int
	step    int
	history []int
}

// NewCounterLogic returns a counter starting at initial. A step below one is
// treated as one.
func NewCounterLogic(initial, step int) *CounterLogic {
	if step < 1 {
		step = 1
	}

	return &CounterLogic{
		ComponentLogic: NewComponentLogic(""),
		value:          initial,
		step:           step,
		history:        []int{initial},
	}
}

// CounterFactory builds a CounterLogic from "initial" and "step" arguments.
func CounterFactory(args map[string]any) (PureLogic, error) {
	initial, err := intArg(args, "initial", 0)
	if err != nil {
		return nil, err
	}
	step, err := intArg(args, "step", 1)
	if err != nil {
		return nil, err
	}

	return NewCounterLogic(initial, step), nil
}

func (c *CounterLogic) Value() int { return c.value }

func (c *CounterLogic) Increment() int {
	c.value += c.step
	c.history = append(c.history, c.value)

	return c.value
}

func (c *CounterLogic) Decrement() int {
	c.value -= c.step
	c.history = append(c.history, c.value)

	return c.value
}

// Reset returns the counter to its initial value.
func (c *CounterLogic) Reset() int {
	c.value = c.history[0]
	c.history = append(c.history, c.value)

	return c.value
}

// CanDecrement reports whether decrementing keeps the value non-negative.
func (c *CounterLogic) CanDecrement() bool {
	return c.value-c.step >= 0
}

// History returns a copy of every value the counter has held.
func (c *CounterLogic) History() []int {
	return append([]int(nil), c.history...)
}

// ToContext implements PureLogic.
func (c *CounterLogic) ToContext() map[string]any {
	ctx := c.ComponentLogic.ToContext()
	ctx["count"] = c.value
	ctx["step"] = c.step
	ctx["can_decrement"] = c.CanDecrement()

	return ctx
}

func intArg(args map[string]any, key string, def int) (int, error) {
	v, ok := args[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("argument %s: expected a number, got %T", key, v)
	}
}
