// Package cmd provides the zen-temple command-line interface.
//
// # Available Commands
//
//   - new: create a project with layouts, example components and an optional server
//   - component: generate a component of type basic, form, list or card
//   - init: add zen-temple.yaml and template directories to an existing project
//   - validate: check components against the zen-temple conventions
//   - list-components: list components, optionally with their dependencies
//   - philosophy: print the design principles
//   - config: show or validate the project configuration
//   - version: print build information
//
// # Command Examples
//
//	zen-temple new my-app --with-server
//	zen-temple component user-form --type form
//	zen-temple validate templates/components --strict
//	zen-temple validate --watch
//	zen-temple list-components --with-deps --format yaml
//
// # Configuration Integration
//
// Commands respect configuration from multiple sources in order of precedence:
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (ZEN_TEMPLE_*)
//  3. Configuration file (zen-temple.yaml)
//  4. Default values (lowest priority)
//
// validate exits non-zero when any component has errors.
package cmd
