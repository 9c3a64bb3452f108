// Package fsutil holds the file system helpers used for config paths and generated files.
package fsutil
