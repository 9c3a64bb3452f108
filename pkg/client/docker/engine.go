package docker

import (
	"errors"
	"fmt"

	"github.com/docker/docker/client"
)

// Error definitions for container engine operations.
var (
	// ErrAPIClientNil is returned when apiClient is nil.
	ErrAPIClientNil = errors.New("apiClient cannot be nil")
	// ErrContainerNotFound is returned when no container carries the requested name.
	ErrContainerNotFound = errors.New("container not found")
	// ErrPortNotPublished is returned when a container does not publish the requested port.
	ErrPortNotPublished = errors.New("port not published")
	// ErrNetworkSubnetNotFound is returned when a network has no IPAM configuration.
	ErrNetworkSubnetNotFound = errors.New("network has no IPAM subnet")
)

// ManagedLabelKey marks networks and containers created by k3d-action.
const ManagedLabelKey = "io.github.k3d-action.managed"

// GetDockerClient creates a Docker client using environment configuration.
func GetDockerClient() (client.APIClient, error) {
	dockerClient, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return dockerClient, nil
}

// Engine is the container runtime state repository backed by the Docker Engine API.
type Engine struct {
	client client.APIClient
}

// NewEngine wraps an API client.
func NewEngine(apiClient client.APIClient) (*Engine, error) {
	if apiClient == nil {
		return nil, ErrAPIClientNil
	}

	return &Engine{client: apiClient}, nil
}

// Close releases the underlying API client.
func (e *Engine) Close() error {
	err := e.client.Close()
	if err != nil {
		return fmt.Errorf("close docker client: %w", err)
	}

	return nil
}

// Shutdown closes the engine when the injector owning it shuts down.
func (e *Engine) Shutdown() error {
	return e.Close()
}
