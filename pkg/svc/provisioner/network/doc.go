// Package network resolves the docker network a cluster is attached to,
// creating it when it does not exist yet.
package network
