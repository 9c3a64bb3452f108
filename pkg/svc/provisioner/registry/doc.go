// Package registry attaches the local image registry to the cluster network and
// writes the k3s mirror configuration pointing at it.
package registry
