package bootstrapper

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/devantler-tech/k3d-action/pkg/apis/action/v1alpha1"
	"github.com/devantler-tech/k3d-action/pkg/ci/output"
	"github.com/devantler-tech/k3d-action/pkg/k8s/readiness"
	k3dprovisioner "github.com/devantler-tech/k3d-action/pkg/svc/provisioner/cluster/k3d"
	"github.com/devantler-tech/k3d-action/pkg/svc/provisioner/network"
	"github.com/devantler-tech/k3d-action/pkg/svc/provisioner/registry"
	"github.com/devantler-tech/k3d-action/pkg/utils/notify"
)

// NetworkResolver creates or reuses the cluster network.
type NetworkResolver interface {
	Resolve(ctx context.Context, name, subnet string) (v1alpha1.NetworkDescriptor, error)
}

// RegistryAttacher wires the local registry into the cluster network.
type RegistryAttacher interface {
	Attach(ctx context.Context, networkName string, port int) (v1alpha1.RegistryDescriptor, error)
}

// NodeSourceFactory returns the node status source of a kube context. An empty
// kubeconfig selects the default loading rules.
type NodeSourceFactory func(kubeconfig, contextName string) (readiness.NodeStatusSource, error)

// Dependencies are the collaborators of a Bootstrapper.
type Dependencies struct {
	Network  NetworkResolver
	Registry RegistryAttacher
	Launcher k3dprovisioner.Launcher
	Nodes    NodeSourceFactory
	Outputs  output.Writer
	// Writer receives progress messages. Defaults to stdout.
	Writer io.Writer
}

// Result describes what a deploy run resolved.
type Result struct {
	Network v1alpha1.NetworkDescriptor
	// Registry is nil when the local registry is disabled.
	Registry *v1alpha1.RegistryDescriptor
	// Polls is the number of node readiness polls.
	Polls int
}

// Bootstrapper runs the deploy phases.
type Bootstrapper struct {
	deps Dependencies
}

// New returns a bootstrapper over deps.
func New(deps Dependencies) *Bootstrapper {
	if deps.Writer == nil {
		deps.Writer = os.Stdout
	}

	return &Bootstrapper{deps: deps}
}

// Deploy validates req, then resolves the network, publishes the network outputs,
// attaches the registry when enabled, creates the cluster and waits for every
// node to be Ready. It stops at the first failure and leaves created resources in place.
func (b *Bootstrapper) Deploy(ctx context.Context, req v1alpha1.ClusterRequest) (Result, error) {
	var result Result

	err := Validate(req)
	if err != nil {
		return result, err
	}

	writer := b.deps.Writer

	notify.Titlef(writer, "🌐", "Network")

	result.Network, err = b.deps.Network.Resolve(ctx, req.Network, req.SubnetCIDR)
	if err != nil {
		return result, fmt.Errorf("resolve network: %w", err)
	}

	err = b.publishNetwork(result.Network)
	if err != nil {
		return result, err
	}

	launch := k3dprovisioner.LaunchSpec{
		Name:    req.Name,
		Args:    req.Args,
		Network: result.Network.Name,
	}

	if req.UseDefaultRegistry {
		notify.Titlef(writer, "📦", "Registry")

		descriptor, attachErr := b.deps.Registry.Attach(ctx, result.Network.Name, req.RegistryPort)
		if attachErr != nil {
			return result, fmt.Errorf("attach registry: %w", attachErr)
		}

		result.Registry = &descriptor

		// The mounted file must mirror the port the registry listens on.
		attachErr = registry.VerifyMirrorConfig(descriptor.ConfigPath, descriptor.Port)
		if attachErr != nil {
			return result, v1alpha1.NewExternalCommandError("check registry mirror config", attachErr)
		}

		launch.RegistryConfigPath = descriptor.ConfigPath
	}

	notify.Titlef(writer, "🚀", "Create cluster")

	err = b.deps.Launcher.Create(ctx, launch)
	if err != nil {
		return result, wrapExternal("k3d cluster create", err)
	}

	notify.Titlef(writer, "⏳", "Wait for nodes")

	result.Polls, err = b.waitForNodes(ctx, req)
	if err != nil {
		return result, err
	}

	notify.Successf(writer, "cluster %s is ready", req.Name)

	return result, nil
}

// Validate checks req before any runtime call.
func Validate(req v1alpha1.ClusterRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return v1alpha1.NewConfigurationError(v1alpha1.ErrClusterNameRequired)
	}

	err := network.ValidateRequest(strings.TrimSpace(req.Network), strings.TrimSpace(req.SubnetCIDR))
	if err != nil {
		return err
	}

	_, err = k3dprovisioner.BuildCreateArgs(k3dprovisioner.LaunchSpec{
		Name:    req.Name,
		Args:    req.Args,
		Network: req.Network,
	})
	if err != nil {
		return err
	}

	return nil
}

func (b *Bootstrapper) publishNetwork(descriptor v1alpha1.NetworkDescriptor) error {
	err := b.deps.Outputs.Set(output.NetworkKey, descriptor.Name)
	if err != nil {
		return fmt.Errorf("publish outputs: %w", err)
	}

	err = b.deps.Outputs.Set(output.SubnetCIDRKey, descriptor.SubnetCIDR)
	if err != nil {
		return fmt.Errorf("publish outputs: %w", err)
	}

	return nil
}

func (b *Bootstrapper) waitForNodes(ctx context.Context, req v1alpha1.ClusterRequest) (int, error) {
	contextName := req.ContextName()

	source, err := b.deps.Nodes(req.Kubeconfig, contextName)
	if err != nil {
		return 0, v1alpha1.NewExternalCommandError("connect to "+contextName, err)
	}

	opts := readiness.OptionsFrom(req.Readiness)
	opts.OnPoll = func(attempt int, snapshot v1alpha1.NodeReadinessSnapshot) {
		notify.Activityf(b.deps.Writer, "waiting for nodes (poll %d): %s", attempt, snapshot)
	}

	polls, err := readiness.WaitForNodesReady(ctx, source, opts)
	if err != nil {
		return polls, v1alpha1.NewExternalCommandError("wait for nodes", err)
	}

	return polls, nil
}

func wrapExternal(op string, err error) error {
	if v1alpha1.IsConfigurationError(err) {
		return err
	}

	return v1alpha1.NewExternalCommandError(op, err)
}
