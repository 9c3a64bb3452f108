// Package cli provides reusable helpers for command wiring and execution.
//
// Subpackages:
//
//   - cli/cmd: the k3d-action root command and its deploy and test-registry commands
//   - cli/ui: user interface components (errorhandler)
package cli
