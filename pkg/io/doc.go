// Package io provides utilities for input operations related to configuration management.
//
// Subpackages:
//   - configmanager: request loading from files, dotenv, environment and flags
//
// For low-level file I/O operations (writing, path expansion), see the fsutil package.
package io
