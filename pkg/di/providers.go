package di

import (
	"context"
	"fmt"
	"io"

	"github.com/devantler-tech/k3d-action/pkg/ci/output"
	"github.com/devantler-tech/k3d-action/pkg/client/docker"
	"github.com/devantler-tech/k3d-action/pkg/client/netretry"
	"github.com/devantler-tech/k3d-action/pkg/client/oci"
	"github.com/devantler-tech/k3d-action/pkg/k8s"
	"github.com/devantler-tech/k3d-action/pkg/k8s/readiness"
	"github.com/devantler-tech/k3d-action/pkg/svc/bootstrapper"
	k3dprovisioner "github.com/devantler-tech/k3d-action/pkg/svc/provisioner/cluster/k3d"
	"github.com/devantler-tech/k3d-action/pkg/svc/provisioner/network"
	"github.com/devantler-tech/k3d-action/pkg/svc/provisioner/registry"
	"github.com/devantler-tech/k3d-action/pkg/svc/registrytest"
	"github.com/devantler-tech/k3d-action/pkg/utils/runner"
	"github.com/samber/do/v2"
)

// ContainerStore is the container runtime state deploy reads and changes.
type ContainerStore interface {
	network.Store
	registry.Store
}

// RegistryTester runs the registry smoke test.
type RegistryTester interface {
	Run(ctx context.Context, opts registrytest.Options) (registrytest.Report, error)
}

// RegistryTesterFactory builds a RegistryTester reporting to writer.
type RegistryTesterFactory func(writer io.Writer) RegistryTester

// Dependency providers.

// NewRuntime constructs the runtime used by the root command.
func NewRuntime() *Runtime {
	return New(
		provideContainerStore,
		provideClusterLauncher,
		provideNodeSourceFactory,
		provideOutputWriter,
		provideRegistryReadyCheck,
		provideRegistryTesterFactory,
	)
}

// provideContainerStore registers the Docker Engine API state repository.
// The docker client is only created when a command resolves it.
func provideContainerStore(i Injector) error {
	do.Provide(i, func(Injector) (ContainerStore, error) {
		apiClient, err := docker.GetDockerClient()
		if err != nil {
			return nil, err
		}

		engine, err := docker.NewEngine(apiClient)
		if err != nil {
			return nil, fmt.Errorf("create docker engine: %w", err)
		}

		return engine, nil
	})

	return nil
}

// provideClusterLauncher registers the in-process k3d launcher.
func provideClusterLauncher(i Injector) error {
	do.Provide(i, func(Injector) (k3dprovisioner.Launcher, error) {
		return k3dprovisioner.NewLauncher(runner.NewCobraCommandRunner(nil, nil)), nil
	})

	return nil
}

// provideNodeSourceFactory registers the client-go node status source.
func provideNodeSourceFactory(i Injector) error {
	do.ProvideValue(i, bootstrapper.NodeSourceFactory(
		func(kubeconfig, contextName string) (readiness.NodeStatusSource, error) {
			clientset, err := k8s.NewClientset(kubeconfig, contextName)
			if err != nil {
				return nil, err
			}

			return k8s.NewNodeStatusLister(clientset), nil
		},
	))

	return nil
}

// provideOutputWriter registers the $GITHUB_OUTPUT writer.
func provideOutputWriter(i Injector) error {
	do.Provide(i, func(Injector) (output.Writer, error) {
		return output.NewGitHubWriter(nil), nil
	})

	return nil
}

// provideRegistryReadyCheck registers the HTTP reachability check for a new registry.
func provideRegistryReadyCheck(i Injector) error {
	do.ProvideValue(i, registry.ReadyCheck(registry.WaitForPublishedRegistry))

	return nil
}

// provideRegistryTesterFactory registers the go-containerregistry backed tester.
func provideRegistryTesterFactory(i Injector) error {
	do.ProvideValue(i, RegistryTesterFactory(func(writer io.Writer) RegistryTester {
		return registrytest.NewTester(oci.NewClient(netretry.DefaultPolicy), writer)
	}))

	return nil
}
