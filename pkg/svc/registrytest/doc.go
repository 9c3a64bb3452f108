// Package registrytest checks that the local registry accepts pushes and that
// cluster nodes can pull from it through the k3s mirror.
package registrytest
