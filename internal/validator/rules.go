package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule IDs.
const (
	RuleInlineScript       = "inline-script"
	RuleInlineEventHandler = "inline-event-handler"
	RuleInlineStateLiteral = "inline-state-literal"
	RuleStateExpression    = "state-expression"
	RuleHTMXSwap           = "htmx-swap"
	RuleHTMXSync           = "htmx-sync"
	RuleRootElement        = "root-element"
	RuleFullDocument       = "full-document"
	RuleNoReactivity       = "no-reactivity"

	// RuleParse tags the single finding reported for untokenizable input.
	RuleParse = "parse"
)

// Rule is a single stateless check. Check returns one message per violation.
type Rule struct {
	ID          string
	Description string
	// Severity applies in standard mode.
	Severity Severity
	// StrictSeverity, when set, replaces Severity in strict mode.
	StrictSeverity Severity
	Check          func(doc *Document) []string
}

// builtinRules is the fixed rule table. Order determines message order.
var builtinRules = []Rule{
	{
		ID:          RuleInlineScript,
		Description: "inline <script> blocks may only declare state classes or configure htmx and Alpine.js",
		Severity:    SeverityError,
		Check:       checkInlineScripts,
	},
	{
		ID:          RuleInlineEventHandler,
		Description: "on<event> attributes are replaced by Alpine.js @event bindings",
		Severity:    SeverityError,
		Check:       checkInlineHandlers,
	},
	{
		ID:             RuleInlineStateLiteral,
		Description:    "x-data instantiates a dedicated state object instead of an object literal",
		Severity:       SeverityWarning,
		StrictSeverity: SeverityError,
		Check:          checkStateLiteral,
	},
	{
		ID:          RuleStateExpression,
		Description: "x-data is a constructor or factory call",
		Severity:    SeverityWarning,
		Check:       checkStateExpression,
	},
	{
		ID:          RuleHTMXSwap,
		Description: `HTMX requests use hx-swap="none" instead of replacing DOM content`,
		Severity:    SeverityWarning,
		Check:       checkHTMXSwap,
	},
	{
		ID:          RuleHTMXSync,
		Description: `hx-swap="none" is paired with an htmx:after-request sync into state`,
		Severity:    SeverityWarning,
		Check:       checkHTMXSync,
	},
	{
		ID:          RuleRootElement,
		Description: "the component has a root container element",
		Severity:    SeverityError,
		Check:       checkRootElement,
	},
	{
		ID:          RuleFullDocument,
		Description: "components are fragments, not full HTML documents",
		Severity:    SeverityWarning,
		Check:       checkFullDocument,
	},
	{
		ID:          RuleNoReactivity,
		Description: "the component uses Alpine.js directives",
		Severity:    SeverityWarning,
		Check:       checkReactivity,
	},
}

// Rules returns a copy of the built-in rule table.
func Rules() []Rule {
	rules := make([]Rule, len(builtinRules))
	copy(rules, builtinRules)

	return rules
}

// IsRule reports whether id names a built-in rule.
func IsRule(id string) bool {
	for _, r := range builtinRules {
		if r.ID == id {
			return true
		}
	}

	return false
}

func checkInlineScripts(doc *Document) []string {
	var msgs []string
	for _, s := range doc.Scripts {
		if _, external := s.Attr("src"); external {
			continue
		}
		if isDataScript(s) || onlyDeclarations(s.Body) {
			continue
		}
		msgs = append(msgs,
			"Inline script detected. Move logic into a state class used from x-data (x-data=\"new MyState()\").")
	}

	return msgs
}

var handlerKey = regexp.MustCompile(`^on[a-z]+$`)

// handlerName returns the event handler attribute carried by key. A Jinja
// tag inside a start tag splits attributes (`{% if x %}onclick=` tokenizes
// as the key "%}onclick"), so only the part after the last tag delimiter
// is considered.
func handlerName(key string) (string, bool) {
	if i := max(strings.LastIndex(key, "%}"), strings.LastIndex(key, "}}")); i >= 0 {
		key = key[i+2:]
	}

	return key, handlerKey.MatchString(key)
}

func checkInlineHandlers(doc *Document) []string {
	var msgs []string
	seen := make(map[string]bool)

	for _, el := range doc.Elements {
		for _, a := range el.Attrs {
			name, ok := handlerName(a.Key)
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			msgs = append(msgs, fmt.Sprintf(
				"Inline event handler detected (%s). Use Alpine.js @%s instead.",
				name, strings.TrimPrefix(name, "on")))
		}
	}

	return msgs
}

var bareIdentifier = regexp.MustCompile(`^[A-Za-z_$][\w$.]*$`)

func xDataValues(doc *Document) []string {
	var values []string
	for _, el := range doc.Elements {
		if v, ok := el.Attr("x-data"); ok {
			values = append(values, strings.TrimSpace(v))
		}
	}

	return values
}

func checkStateLiteral(doc *Document) []string {
	var msgs []string
	for _, v := range xDataValues(doc) {
		if !strings.HasPrefix(v, "{") {
			continue
		}
		msgs = append(msgs, fmt.Sprintf(
			"x-data=%q uses an inline object literal as root state. Instantiate a dedicated state class instead (x-data=\"new MyState()\").",
			truncate(v, 40)))
	}

	return msgs
}

func checkStateExpression(doc *Document) []string {
	var msgs []string
	for _, v := range xDataValues(doc) {
		if v == "" || !bareIdentifier.MatchString(v) {
			continue
		}
		msgs = append(msgs, fmt.Sprintf(
			"x-data=%q should instantiate a state object or call a factory (e.g. \"new MyState()\").", v))
	}

	return msgs
}

var requestAttrs = []string{"hx-get", "hx-post", "hx-put", "hx-patch", "hx-delete"}

func requestAttr(el Element) (string, bool) {
	for _, name := range requestAttrs {
		if _, ok := el.Attr(name); ok {
			return name, true
		}
	}

	return "", false
}

// swapStrategy returns the lowercased strategy word of an hx-swap value,
// dropping modifiers such as "swap:1s".
func swapStrategy(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}

	return strings.ToLower(fields[0])
}

func checkHTMXSwap(doc *Document) []string {
	var msgs []string
	for _, el := range doc.Elements {
		attr, ok := requestAttr(el)
		if !ok {
			continue
		}
		swap, has := el.Attr("hx-swap")
		if !has && el.InheritedSwap != "" {
			swap, has = el.InheritedSwap, true
		}
		switch strategy := swapStrategy(swap); {
		case !has || strategy == "":
			msgs = append(msgs, fmt.Sprintf(
				"%s without hx-swap replaces innerHTML by default. Use hx-swap=\"none\" and sync the response into state via @htmx:after-request.",
				attr))
		case strategy != "none":
			msgs = append(msgs, fmt.Sprintf(
				"hx-swap=%q replaces DOM content directly. Use hx-swap=\"none\" and sync the response into state via @htmx:after-request.",
				strategy))
		}
	}

	return msgs
}

func checkHTMXSync(doc *Document) []string {
	noSwap := false
	for _, el := range doc.Elements {
		if v, ok := el.Attr("hx-swap"); ok && swapStrategy(v) == "none" {
			noSwap = true

			break
		}
	}
	if !noSwap {
		return nil
	}

	for _, el := range doc.Elements {
		for _, a := range el.Attrs {
			if strings.Contains(a.Key, "htmx:after-request") || strings.Contains(a.Key, "htmx:afterrequest") {
				return nil
			}
		}
	}
	for _, s := range doc.Scripts {
		if strings.Contains(s.Body, "htmx:afterRequest") || strings.Contains(s.Body, "htmx:after-request") {
			return nil
		}
	}

	return []string{
		"hx-swap=\"none\" is used but no @htmx:after-request handler syncs the response into state.",
	}
}

// nonContainerTags never count as a component's root element.
var nonContainerTags = map[string]bool{
	"script": true, "style": true, "link": true, "meta": true,
	"title": true, "base": true, "template": true,
}

func checkRootElement(doc *Document) []string {
	for _, el := range doc.Elements {
		if !nonContainerTags[el.Tag] {
			return nil
		}
	}

	return []string{
		"Missing root element. Wrap the component in a container element (e.g. <div x-data=\"new MyState()\">).",
	}
}

var inheritanceTag = regexp.MustCompile(`\{%-?\s*(extends|block|include)\b`)

func checkFullDocument(doc *Document) []string {
	if !doc.HasElement("html") || inheritanceTag.MatchString(doc.Raw) {
		return nil
	}

	return []string{
		"Component contains a full HTML document. Consider breaking it into reusable component fragments.",
	}
}

func checkReactivity(doc *Document) []string {
	if doc.HasAttrPrefix("x-", "@", ":") {
		return nil
	}

	return []string{
		"No Alpine.js directives found. Consider using Alpine.js for reactive behavior.",
	}
}

// truncate shortens s to n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	return string([]rune(s)[:n]) + "..."
}
