package validator

import (
	"strings"
	"unicode"
)

// dataScriptTypes lists <script type> values that carry data or markup, not
// JavaScript.
var dataScriptTypes = map[string]bool{
	"application/json":    true,
	"application/ld+json": true,
	"importmap":           true,
	"text/template":       true,
	"text/html":           true,
	"text/x-template":     true,
}

// isDataScript reports whether the script holds a non-executable payload.
func isDataScript(s Script) bool {
	typ, ok := s.Attr("type")
	if !ok {
		return false
	}

	return dataScriptTypes[strings.ToLower(strings.TrimSpace(typ))]
}

// onlyDeclarations reports whether a script body consists solely of
// top-level state class declarations and htmx or Alpine.js setup statements
// (optionally separated by semicolons). An empty or comment-only body also
// qualifies.
func onlyDeclarations(body string) bool {
	src := stripComments(body)
	i := 0

	for {
		i = skipSpaceAndSemicolons(src, i)
		if i >= len(src) {
			return true
		}

		var ok bool
		if hasKeyword(src, i, "class") {
			i, ok = skipClass(src, i)
		} else if isLibrarySetup(src, i) {
			i, ok = skipStatement(src, i), true
		}
		if !ok {
			return false
		}
	}
}

// skipClass returns the index just past the class declaration at i.
func skipClass(src string, i int) (int, bool) {
	i = skipSpace(src, i+len("class"))
	start := i
	for i < len(src) && isIdentChar(rune(src[i])) {
		i++
	}
	if i == start {
		return 0, false
	}

	i = skipSpace(src, i)
	if hasKeyword(src, i, "extends") {
		i = skipSpace(src, i+len("extends"))
		start = i
		for i < len(src) && (isIdentChar(rune(src[i])) || src[i] == '.') {
			i++
		}
		if i == start {
			return 0, false
		}
		i = skipSpace(src, i)
	}

	if i >= len(src) || src[i] != '{' {
		return 0, false
	}

	end, ok := matchBrace(src, i)
	if !ok {
		return 0, false
	}

	return end + 1, true
}

// setupEventPrefixes are the event names whose document listeners count as
// library setup.
var setupEventPrefixes = []string{"alpine:", "htmx:"}

// isLibrarySetup reports whether the statement at i configures htmx or
// Alpine.js: htmx.defineExtension(...), htmx.config.x = ..., Alpine.data(...)
// or document.addEventListener('alpine:init', ...).
func isLibrarySetup(src string, i int) bool {
	for _, obj := range []string{"htmx", "Alpine"} {
		if hasKeyword(src, i, obj) {
			j := skipSpace(src, i+len(obj))

			return j < len(src) && src[j] == '.'
		}
	}

	const listener = "document.addEventListener"
	if !strings.HasPrefix(src[i:], listener) {
		return false
	}
	j := skipSpace(src, i+len(listener))
	if j >= len(src) || src[j] != '(' {
		return false
	}
	j = skipSpace(src, j+1)
	if j >= len(src) || (src[j] != '\'' && src[j] != '"' && src[j] != '`') {
		return false
	}
	end := skipString(src, j)
	event := src[j+1 : max(j+1, end-1)]
	for _, prefix := range setupEventPrefixes {
		if strings.HasPrefix(event, prefix) {
			return true
		}
	}

	return false
}

// skipStatement returns the index of the semicolon or newline ending the
// statement at i, outside brackets and string literals.
func skipStatement(src string, i int) int {
	depth := 0
	for ; i < len(src); i++ {
		switch src[i] {
		case '\'', '"', '`':
			i = skipString(src, i) - 1
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ';', '\n':
			if depth <= 0 {
				return i
			}
		}
	}

	return i
}

// stripComments removes // and /* */ comments outside of string literals.
func stripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := skipString(src, i)
			b.WriteString(src[i:end])
			i = end - 1
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			b.WriteByte('\n')
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			i += end + 3
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// skipString returns the index just past the string literal starting at i.
func skipString(src string, i int) int {
	quote := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}

	return len(src)
}

// matchBrace returns the index of the brace closing the one at open.
func matchBrace(src string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '\'', '"', '`':
			i = skipString(src, i) - 1
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}

func hasKeyword(src string, i int, kw string) bool {
	if !strings.HasPrefix(src[i:], kw) {
		return false
	}
	next := i + len(kw)

	return next >= len(src) || !isIdentChar(rune(src[next]))
}

func skipSpace(src string, i int) int {
	for i < len(src) && unicode.IsSpace(rune(src[i])) {
		i++
	}

	return i
}

func skipSpaceAndSemicolons(src string, i int) int {
	for i < len(src) && (unicode.IsSpace(rune(src[i])) || src[i] == ';') {
		i++
	}

	return i
}

func isIdentChar(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
