// Package cmd provides the command-line interface of k3d-action.
//
// The root command dispatches to:
//   - deploy: network, optional local registry, k3d cluster and node readiness
//   - test-registry: push an image through the local registry and pull it in-cluster
package cmd
