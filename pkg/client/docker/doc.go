// Package docker talks to the Docker Engine API on behalf of the network resolver
// and the registry attacher. It exposes only the handful of queries and commands
// those components need; callers never see the raw API client.
package docker
