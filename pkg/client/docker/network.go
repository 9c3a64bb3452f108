package docker

import (
	"context"
	"fmt"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/network"
)

const bridgeDriver = "bridge"

// ListNetworks returns the names of all networks known to the engine.
func (e *Engine) ListNetworks(ctx context.Context) ([]string, error) {
	networks, err := e.client.NetworkList(ctx, network.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}

	names := make([]string, 0, len(networks))
	for _, nw := range networks {
		names = append(names, nw.Name)
	}

	return names, nil
}

// CreateNetwork creates a bridge network with a single IPAM subnet.
func (e *Engine) CreateNetwork(ctx context.Context, name, subnet string) error {
	_, err := e.client.NetworkCreate(ctx, name, network.CreateOptions{
		Driver: bridgeDriver,
		IPAM: &network.IPAM{
			Config: []network.IPAMConfig{{Subnet: subnet}},
		},
		Labels: map[string]string{ManagedLabelKey: "true"},
	})
	if err != nil {
		return fmt.Errorf("failed to create network %s: %w", name, err)
	}

	return nil
}

// InspectNetworkSubnet returns the subnet of the first IPAM configuration block.
func (e *Engine) InspectNetworkSubnet(ctx context.Context, name string) (string, error) {
	resource, err := e.client.NetworkInspect(ctx, name, network.InspectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to inspect network %s: %w", name, err)
	}

	if len(resource.IPAM.Config) == 0 || resource.IPAM.Config[0].Subnet == "" {
		return "", fmt.Errorf("%w: %s", ErrNetworkSubnetNotFound, name)
	}

	return resource.IPAM.Config[0].Subnet, nil
}

// NetworkHasContainer reports whether a container with exactly the given name is
// attached to the network.
func (e *Engine) NetworkHasContainer(ctx context.Context, networkName, containerName string) (bool, error) {
	resource, err := e.client.NetworkInspect(ctx, networkName, network.InspectOptions{})
	if err != nil {
		return false, fmt.Errorf("failed to inspect network %s: %w", networkName, err)
	}

	for _, endpoint := range resource.Containers {
		if strings.TrimPrefix(endpoint.Name, "/") == containerName {
			return true, nil
		}
	}

	return false, nil
}

// ConnectToNetwork attaches a container to a network. An endpoint that already
// exists counts as success.
func (e *Engine) ConnectToNetwork(ctx context.Context, networkName, containerName string) error {
	err := e.client.NetworkConnect(ctx, networkName, containerName, nil)
	if err != nil && !isAlreadyConnectedError(err) {
		return fmt.Errorf("failed to connect %s to network %s: %w", containerName, networkName, err)
	}

	return nil
}

func isAlreadyConnectedError(err error) bool {
	if cerrdefs.IsConflict(err) || cerrdefs.IsAlreadyExists(err) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}
