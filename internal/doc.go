// Package internal contains the core implementation packages for zen-temple.
//
// # Package Organization
//
//   - validator: rule-based checks of component templates
//   - scaffolding: project and component generation
//   - templates: pongo2 rendering of component macros
//   - logic: Go state objects bridged into template context
//   - scanner, registry, types: component discovery and the dependency graph
//   - watcher: debounced fsnotify monitoring for validate --watch
//   - config, errors, logging, version: ambient support
//
// # Inter-Package Communication
//
//   - Scanner processes template files and populates the registry
//   - Registry answers dependency, dependent and cycle queries
//   - Validator consumes configuration for strictness and rule overrides
//   - Watcher reports debounced changes that trigger re-validation
//
// # Security Considerations
//
//   - Config and scanner reject directory traversal in template paths
//   - Templates resolve component names only inside configured directories
//   - Scaffolding never overwrites existing files
package internal
