package validator

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// DefaultMaxSize is the largest template the validator will parse.
const DefaultMaxSize = 5 << 20

// Element is a start or self-closing tag found in a template.
type Element struct {
	Tag   string
	Attrs []html.Attribute
	// InheritedSwap is the hx-swap value in effect from the nearest open
	// ancestor that sets one, as htmx inherits it.
	InheritedSwap string
}

// Attr returns the value of the named attribute and whether it is present.
// The tokenizer lowercases attribute names, so name must be lowercase.
func (e Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == name {
			return a.Val, true
		}
	}

	return "", false
}

// Script is a <script> element together with its raw body.
type Script struct {
	Element
	Body string
}

// Document is the tokenized view of a template that rules operate on.
type Document struct {
	Raw      string
	Elements []Element
	Scripts  []Script
}

// voidElements never have an end tag and so never enclose other elements.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

// openElement is an entry of the ancestor stack kept while tokenizing.
type openElement struct {
	tag  string
	swap string
}

// closeElement pops the stack down to the innermost open tag. Stray end
// tags leave the stack untouched.
func closeElement(stack []openElement, tag string) []openElement {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].tag == tag {
			return stack[:i]
		}
	}

	return stack
}

// ParseError describes why a template could not be tokenized.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "unable to parse template: " + e.Reason
}

// Parse tokenizes content. Jinja-style tags and expressions are left in
// text and attribute values untouched.
func Parse(content string, maxSize int) (*Document, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if len(content) > maxSize {
		return nil, &ParseError{Reason: fmt.Sprintf("template is %d bytes, limit is %d", len(content), maxSize)}
	}
	if !utf8.ValidString(content) {
		return nil, &ParseError{Reason: "content is not valid UTF-8"}
	}

	doc := &Document{Raw: content}
	z := html.NewTokenizer(strings.NewReader(content))

	var (
		current  *Script
		bodyText strings.Builder
		open     []openElement
	)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			err := z.Err()
			if errors.Is(err, io.EOF) {
				if current != nil {
					// Unterminated <script>: keep what was read.
					current.Body = bodyText.String()
					doc.Scripts = append(doc.Scripts, *current)
				}

				return doc, nil
			}

			return nil, &ParseError{Reason: err.Error()}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			el := Element{Tag: tok.Data, Attrs: tok.Attr}
			if len(open) > 0 {
				el.InheritedSwap = open[len(open)-1].swap
			}
			doc.Elements = append(doc.Elements, el)

			if tt == html.StartTagToken && !voidElements[tok.Data] {
				swap, ok := el.Attr("hx-swap")
				if !ok {
					swap = el.InheritedSwap
				}
				open = append(open, openElement{tag: tok.Data, swap: swap})
			}

			if tok.Data == "script" && tt == html.StartTagToken {
				current = &Script{Element: el}
				bodyText.Reset()
			}

		case html.TextToken:
			if current != nil {
				bodyText.Write(z.Text())
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			open = closeElement(open, string(name))
			if current != nil && string(name) == "script" {
				current.Body = bodyText.String()
				doc.Scripts = append(doc.Scripts, *current)
				current = nil
			}
		}
	}
}

// HasAttrPrefix reports whether any element carries an attribute whose name
// starts with one of the prefixes.
func (d *Document) HasAttrPrefix(prefixes ...string) bool {
	for _, el := range d.Elements {
		for _, a := range el.Attrs {
			for _, p := range prefixes {
				if strings.HasPrefix(a.Key, p) {
					return true
				}
			}
		}
	}

	return false
}

// HasElement reports whether the document contains a tag with the given name.
func (d *Document) HasElement(tag string) bool {
	for _, el := range d.Elements {
		if el.Tag == tag {
			return true
		}
	}

	return false
}
