package cmd

import (
	"github.com/devantler-tech/k3d-action/pkg/di"
	"github.com/devantler-tech/k3d-action/pkg/io/configmanager"
	"github.com/devantler-tech/k3d-action/pkg/svc/registrytest"
	"github.com/spf13/cobra"
)

// NewTestRegistryCmd creates the test-registry command.
func NewTestRegistryCmd(runtime *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test-registry",
		Short: "Push an image through the local registry and pull it in the cluster",
		Long: "Copy TEST_IMAGE into the local registry on REGISTRY_PORT and verify its digest. " +
			"When CLUSTER_NAME is set, run a pod pulling the image through the cluster mirror.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandManager(cmd)

	cmd.RunE = di.RunEWithRuntime(runtime, func(cmd *cobra.Command, injector di.Injector) error {
		return handleTestRegistryRunE(cmd, injector, cfgManager)
	})

	return cmd
}

func handleTestRegistryRunE(
	cmd *cobra.Command,
	injector di.Injector,
	cfgManager *configmanager.Manager,
) error {
	cfgManager.Writer = cmd.OutOrStdout()

	request, err := cfgManager.Load()
	if err != nil {
		return err
	}

	testers, err := di.ResolveRegistryTesterFactory(injector)
	if err != nil {
		return err
	}

	_, err = testers(cmd.OutOrStdout()).Run(cmd.Context(), registrytest.Options{
		Port:        request.RegistryPort,
		SourceImage: request.TestImage,
		ClusterName: request.Name,
		Kubeconfig:  request.Kubeconfig,
	})

	return err
}
