package k3dprovisioner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/devantler-tech/k3d-action/pkg/apis/action/v1alpha1"
	"github.com/devantler-tech/k3d-action/pkg/utils/notify"
	"github.com/devantler-tech/k3d-action/pkg/utils/runner"
	clustercommand "github.com/k3d-io/k3d/v5/cmd/cluster"
	"github.com/kballard/go-shellquote"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const logTimestampFormat = "2006-01-02T15:04:05Z"

//nolint:gochecknoglobals // k3d logs through the logrus standard logger.
var logrusConfigOnce sync.Once

// LaunchSpec is everything the cluster create invocation needs.
type LaunchSpec struct {
	// Name is the cluster name.
	Name string
	// Args is the raw ARGS string, split with shell quoting rules.
	Args string
	// Network is the docker network the cluster joins.
	Network string
	// RegistryConfigPath is the absolute path of registries.yaml. Empty when no registry is used.
	RegistryConfigPath string
}

// Launcher creates clusters with k3d.
type Launcher interface {
	Create(ctx context.Context, spec LaunchSpec) error
}

// CommandFactory builds a fresh k3d cluster create command.
type CommandFactory func() *cobra.Command

// K3dLauncher runs k3d cluster create through a command runner.
type K3dLauncher struct {
	runner     runner.CommandRunner
	newCommand CommandFactory
}

// NewLauncher returns a launcher that runs the k3d cluster create command.
// A nil runner streams k3d output to stdout and stderr.
func NewLauncher(commandRunner runner.CommandRunner) *K3dLauncher {
	return NewLauncherWithFactory(commandRunner, clustercommand.NewCmdClusterCreate)
}

// NewLauncherWithFactory returns a launcher building its command with factory.
func NewLauncherWithFactory(commandRunner runner.CommandRunner, factory CommandFactory) *K3dLauncher {
	if commandRunner == nil {
		commandRunner = runner.NewCobraCommandRunner(nil, nil)
	}

	ConfigureLogging(os.Stdout, !notify.ColorEnabled())

	return &K3dLauncher{
		runner:     commandRunner,
		newCommand: factory,
	}
}

// ConfigureLogging sets up the logrus standard logger k3d writes to.
// Only the first call has an effect.
func ConfigureLogging(out io.Writer, noColor bool) {
	logrusConfigOnce.Do(func() {
		logrus.SetOutput(out)
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:     !noColor,
			DisableColors:   noColor,
			FullTimestamp:   true,
			TimestampFormat: logTimestampFormat,
		})
		logrus.SetLevel(logrus.InfoLevel)
	})
}

// Create runs k3d cluster create and blocks until k3d reports the cluster up.
func (l *K3dLauncher) Create(ctx context.Context, spec LaunchSpec) error {
	args, err := BuildCreateArgs(spec)
	if err != nil {
		return err
	}

	cmd := l.newCommand()

	_, runErr := l.runner.Run(ctx, cmd, args)
	if runErr != nil {
		return fmt.Errorf("cluster create: %w", runErr)
	}

	return nil
}

// BuildCreateArgs returns the cluster create arguments for spec:
//
//	<name> <args...> --network <network> [--volume <config>:/etc/rancher/k3s/registries.yaml@all] --wait
//
// ARGS is split like a shell would split it, without any evaluation.
func BuildCreateArgs(spec LaunchSpec) ([]string, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, v1alpha1.NewConfigurationError(v1alpha1.ErrClusterNameRequired)
	}

	extra, err := shellquote.Split(spec.Args)
	if err != nil {
		return nil, v1alpha1.NewConfigurationError(fmt.Errorf("split ARGS %q: %w", spec.Args, err))
	}

	args := make([]string, 0, len(extra)+6)
	args = append(args, name)
	args = append(args, extra...)
	args = append(args, "--network", spec.Network)

	if spec.RegistryConfigPath != "" {
		args = append(args, "--volume", RegistryVolumeArg(spec.RegistryConfigPath))
	}

	return append(args, "--wait"), nil
}

// RegistryVolumeArg mounts the mirror configuration into every node.
func RegistryVolumeArg(configPath string) string {
	return configPath + ":" + v1alpha1.RegistryConfigMountPath + "@all"
}
