// Package types provides the component metadata shared by the scanner and
// the registry.
package types

import "time"

// ComponentInfo describes a discovered template component.
type ComponentInfo struct {
	// Name is the template path relative to its root, without extension
	// (e.g. "components/counter").
	Name string `json:"name" yaml:"name"`
	// FilePath is the path of the .html file.
	FilePath string `json:"file_path" yaml:"file_path"`
	// Root is the template directory the component was found under.
	Root string `json:"root" yaml:"root"`
	// Macros lists the macros the template defines.
	Macros []MacroInfo `json:"macros,omitempty" yaml:"macros,omitempty"`
	// Dependencies lists templates referenced via extends, include or import,
	// by name.
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	// Description is taken from the template's leading HTML comment.
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	LastMod     time.Time `json:"last_mod" yaml:"last_mod"`
	// Hash is a CRC32 checksum of the file content.
	Hash string `json:"hash" yaml:"hash"`
}

// MacroInfo describes a {% macro %} definition.
type MacroInfo struct {
	Name       string          `json:"name" yaml:"name"`
	Parameters []ParameterInfo `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Exported   bool            `json:"exported" yaml:"exported"`
}

// ParameterInfo describes a macro parameter.
type ParameterInfo struct {
	Name string `json:"name" yaml:"name"`
	// Default is the literal default expression, empty when required.
	Default string `json:"default,omitempty" yaml:"default,omitempty"`
}

// Optional reports whether the parameter has a default.
func (p ParameterInfo) Optional() bool { return p.Default != "" }

// EventType represents the type of component change event.
type EventType string

const (
	EventTypeAdded   EventType = "added"
	EventTypeUpdated EventType = "updated"
	EventTypeRemoved EventType = "removed"
)

// ComponentEvent represents a change in the component registry.
type ComponentEvent struct {
	Type      EventType
	Component *ComponentInfo
	Timestamp time.Time
}
