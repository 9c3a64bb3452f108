package cmd

import (
	"github.com/devantler-tech/k3d-action/pkg/di"
	"github.com/devantler-tech/k3d-action/pkg/io/configmanager"
	"github.com/devantler-tech/k3d-action/pkg/svc/bootstrapper"
	"github.com/devantler-tech/k3d-action/pkg/svc/provisioner/network"
	"github.com/devantler-tech/k3d-action/pkg/svc/provisioner/registry"
	"github.com/spf13/cobra"
)

// NewDeployCmd creates the deploy command.
func NewDeployCmd(runtime *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Create the network, the optional registry and the cluster",
		Long: "Resolve or create the docker network, publish the network outputs, start the local " +
			"registry when USE_DEFAULT_REGISTRY is true, create the k3d cluster and wait for its nodes.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandManager(cmd)

	cmd.RunE = di.RunEWithRuntime(runtime, func(cmd *cobra.Command, injector di.Injector) error {
		return handleDeployRunE(cmd, injector, cfgManager)
	})

	return cmd
}

func handleDeployRunE(
	cmd *cobra.Command,
	injector di.Injector,
	cfgManager *configmanager.Manager,
) error {
	cfgManager.Writer = cmd.OutOrStdout()

	request, err := cfgManager.Load()
	if err != nil {
		return err
	}

	err = bootstrapper.Validate(*request)
	if err != nil {
		return err
	}

	deps, err := resolveDeployDependencies(cmd, injector)
	if err != nil {
		return err
	}

	_, err = bootstrapper.New(deps).Deploy(cmd.Context(), *request)

	return err
}

func resolveDeployDependencies(
	cmd *cobra.Command,
	injector di.Injector,
) (bootstrapper.Dependencies, error) {
	store, err := di.ResolveContainerStore(injector)
	if err != nil {
		return bootstrapper.Dependencies{}, err
	}

	launcher, err := di.ResolveClusterLauncher(injector)
	if err != nil {
		return bootstrapper.Dependencies{}, err
	}

	nodes, err := di.ResolveNodeSourceFactory(injector)
	if err != nil {
		return bootstrapper.Dependencies{}, err
	}

	outputs, err := di.ResolveOutputWriter(injector)
	if err != nil {
		return bootstrapper.Dependencies{}, err
	}

	readyCheck, err := di.ResolveRegistryReadyCheck(injector)
	if err != nil {
		return bootstrapper.Dependencies{}, err
	}

	writer := cmd.OutOrStdout()

	return bootstrapper.Dependencies{
		Network:  network.NewResolver(store, writer),
		Registry: registry.NewAttacher(store, writer, registry.WithReadyCheck(readyCheck)),
		Launcher: launcher,
		Nodes:    nodes,
		Outputs:  outputs,
		Writer:   writer,
	}, nil
}
