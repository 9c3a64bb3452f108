// Package svc provides service layer components for k3d-action.
//
// This package contains the business logic layer that coordinates between
// the CLI commands and the underlying clients.
//
// Subpackages:
//   - bootstrapper: the deploy flow from network resolution to node readiness
//   - provisioner: docker network, local registry and k3d cluster provisioning
//   - registrytest: local registry smoke test
package svc
