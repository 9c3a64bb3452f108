// Package bootstrapper brings up a CI cluster: network, optional local registry,
// k3d cluster and node readiness, in that order.
package bootstrapper
