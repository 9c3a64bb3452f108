// Package apis provides API type definitions for k3d-action.
//
// This package contains versioned API types:
//
//   - action: the cluster request built from CI configuration, and the
//     descriptors produced while bootstrapping the cluster
package apis
