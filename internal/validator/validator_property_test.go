//go:build property

package validator

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestValidatorProperties checks result invariants over generated templates.
func TestValidatorProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	v := Default()

	properties.Property("validity matches empty errors", prop.ForAll(
		func(content string) bool {
			res := v.ValidateString(content, "gen")

			return res.IsValid == (len(res.Errors) == 0)
		},
		genTemplate(),
	))

	properties.Property("validation is idempotent", prop.ForAll(
		func(content string) bool {
			return reflect.DeepEqual(v.ValidateString(content, "gen"), v.ValidateString(content, "gen"))
		},
		genTemplate(),
	))

	properties.Property("arbitrary text never panics", prop.ForAll(
		func(content string) bool {
			res := v.ValidateString(content, "gen")

			return res.Source == "gen"
		},
		gen.AnyString(),
	))

	// Every distinct on<event> attribute yields exactly one error.
	properties.Property("inline handlers are reported once each", prop.ForAll(
		func(picks []int) bool {
			distinct := make(map[string]bool)
			var b strings.Builder
			b.WriteString(`<div x-data="new S()">`)
			for _, i := range picks {
				h := handlerNames[i]
				distinct[h] = true
				fmt.Fprintf(&b, `<button %s="go()"></button>`, h)
			}
			b.WriteString(`</div>`)

			res := v.ValidateString(b.String(), "gen")
			count := 0
			for _, f := range res.Findings {
				if f.Rule == RuleInlineEventHandler {
					count++
				}
			}

			return count == len(distinct) && res.IsValid == (len(distinct) == 0)
		},
		gen.SliceOf(gen.IntRange(0, len(handlerNames)-1)),
	))

	properties.Property("strict mode never reports fewer errors", prop.ForAll(
		func(content string) bool {
			strict, err := New(WithStrictness(StrictnessStrict))
			if err != nil {
				return false
			}

			return len(strict.ValidateString(content, "gen").Errors) >= len(v.ValidateString(content, "gen").Errors)
		},
		genTemplate(),
	))

	properties.TestingRun(t)
}

var handlerNames = []string{"onclick", "onchange", "onsubmit", "onload", "oninput", "onkeyup"}

// templateFragments cover every rule.
var templateFragments = []string{
	`<div x-data="new CounterState(0)">`,
	`<div x-data="{ open: false }">`,
	`<div x-data="state">`,
	`<div>`,
	`</div>`,
	`<span x-text="count"></span>`,
	`<button @click="inc()">+</button>`,
	`<button onclick="inc()">+</button>`,
	`<button hx-get="/api">load</button>`,
	`<button hx-post="/api" hx-swap="none">save</button>`,
	`<button hx-get="/api" hx-swap="outerHTML">swap</button>`,
	`<div @htmx:after-request="sync($event)"></div>`,
	`<script>class S { m() {} }</script>`,
	`<script>alert(1)</script>`,
	`<script type="application/json">{"a": 1}</script>`,
	`<html>`,
	`</html>`,
	`{% block content %}{% endblock %}`,
	`{{ title }}`,
	`<p>text`,
}

// genTemplate concatenates random fragments.
func genTemplate() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, len(templateFragments)-1)).Map(func(picks []int) string {
		var b strings.Builder
		for _, i := range picks {
			b.WriteString(templateFragments[i])
		}

		return b.String()
	})
}
