// Package utils provides utility packages for common operations.
//
//   - notify: formatted message display with symbols and colors
//   - runner: Cobra command execution with output capture
package utils
