package di

import (
	"fmt"

	"github.com/devantler-tech/k3d-action/pkg/ci/output"
	"github.com/devantler-tech/k3d-action/pkg/svc/bootstrapper"
	k3dprovisioner "github.com/devantler-tech/k3d-action/pkg/svc/provisioner/cluster/k3d"
	"github.com/devantler-tech/k3d-action/pkg/svc/provisioner/registry"
	"github.com/samber/do/v2"
)

// Dependency resolvers.

// ResolveContainerStore retrieves the container runtime state repository.
func ResolveContainerStore(injector Injector) (ContainerStore, error) {
	store, err := do.Invoke[ContainerStore](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve container store dependency: %w", err)
	}

	return store, nil
}

// ResolveClusterLauncher retrieves the cluster launcher.
func ResolveClusterLauncher(injector Injector) (k3dprovisioner.Launcher, error) {
	launcher, err := do.Invoke[k3dprovisioner.Launcher](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve cluster launcher dependency: %w", err)
	}

	return launcher, nil
}

// ResolveNodeSourceFactory retrieves the node status source factory.
func ResolveNodeSourceFactory(injector Injector) (bootstrapper.NodeSourceFactory, error) {
	factory, err := do.Invoke[bootstrapper.NodeSourceFactory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve node source dependency: %w", err)
	}

	return factory, nil
}

// ResolveOutputWriter retrieves the CI output writer.
func ResolveOutputWriter(injector Injector) (output.Writer, error) {
	writer, err := do.Invoke[output.Writer](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve output writer dependency: %w", err)
	}

	return writer, nil
}

// ResolveRegistryReadyCheck retrieves the check run after the registry is started.
func ResolveRegistryReadyCheck(injector Injector) (registry.ReadyCheck, error) {
	check, err := do.Invoke[registry.ReadyCheck](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve registry ready check dependency: %w", err)
	}

	return check, nil
}

// ResolveRegistryTesterFactory retrieves the registry tester factory.
func ResolveRegistryTesterFactory(injector Injector) (RegistryTesterFactory, error) {
	factory, err := do.Invoke[RegistryTesterFactory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve registry tester dependency: %w", err)
	}

	return factory, nil
}
