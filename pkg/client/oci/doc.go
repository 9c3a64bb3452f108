// Package oci pushes images into and inspects images in OCI distribution registries.
// It backs the local registry smoke test.
package oci
