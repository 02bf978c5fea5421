//go:build property

package watcher

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDebouncerProperties checks batching invariants without touching the
// filesystem.
func TestDebouncerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9876)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	batch := func(picks []int) []ChangeEvent {
		d := newDebouncer(time.Hour)
		for i, p := range picks {
			d.addEvent(ChangeEvent{Type: EventType(i % 4), Path: fmt.Sprintf("c%d.html", p)})
		}
		d.stop()
		d.flush()

		select {
		case events := <-d.output:
			return events
		default:
			return nil
		}
	}

	properties.Property("one event per distinct path", prop.ForAll(
		func(picks []int) bool {
			distinct := make(map[int]bool)
			for _, p := range picks {
				distinct[p] = true
			}

			return len(batch(picks)) == len(distinct)
		},
		gen.SliceOf(gen.IntRange(0, 9)),
	))

	properties.Property("batches are sorted by path", prop.ForAll(
		func(picks []int) bool {
			events := batch(picks)

			return sort.SliceIsSorted(events, func(i, j int) bool { return events[i].Path < events[j].Path })
		},
		gen.SliceOf(gen.IntRange(0, 9)),
	))

	properties.Property("the latest event per path wins", prop.ForAll(
		func(picks []int) bool {
			last := make(map[string]EventType)
			for i, p := range picks {
				last[fmt.Sprintf("c%d.html", p)] = EventType(i % 4)
			}
			for _, e := range batch(picks) {
				if last[e.Path] != e.Type {
					return false
				}
			}

			return true
		},
		gen.SliceOf(gen.IntRange(0, 9)),
	))

	properties.TestingRun(t)
}
