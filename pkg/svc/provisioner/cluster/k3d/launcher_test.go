package k3dprovisioner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/devantler-tech/k3d-action/pkg/apis/action/v1alpha1"
	k3dprovisioner "github.com/devantler-tech/k3d-action/pkg/svc/provisioner/cluster/k3d"
	"github.com/devantler-tech/k3d-action/pkg/utils/runner"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRunFailed = errors.New("boom")

type recordingRunner struct {
	calls [][]string
	names []string
	err   error
}

func (r *recordingRunner) Run(
	_ context.Context,
	cmd *cobra.Command,
	args []string,
) (runner.CommandResult, error) {
	r.names = append(r.names, cmd.Name())
	r.calls = append(r.calls, args)

	return runner.CommandResult{}, r.err
}

func stubCreateCommand() *cobra.Command {
	return &cobra.Command{Use: "create NAME"}
}

func TestBuildCreateArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec k3dprovisioner.LaunchSpec
		want []string
	}{
		{
			name: "minimal",
			spec: k3dprovisioner.LaunchSpec{Name: "ci", Network: "k3d-action-bridge-network"},
			want: []string{"ci", "--network", "k3d-action-bridge-network", "--wait"},
		},
		{
			name: "extra args are split with quoting rules",
			spec: k3dprovisioner.LaunchSpec{
				Name:    "ci",
				Args:    `--agents 3 --k3s-arg "--disable=traefik@server:0"`,
				Network: "net",
			},
			want: []string{
				"ci", "--agents", "3", "--k3s-arg", "--disable=traefik@server:0",
				"--network", "net", "--wait",
			},
		},
		{
			name: "registry config is mounted into every node",
			spec: k3dprovisioner.LaunchSpec{
				Name:               "ci",
				Network:            "net",
				RegistryConfigPath: "/work/registries.yaml",
			},
			want: []string{
				"ci", "--network", "net",
				"--volume", "/work/registries.yaml:/etc/rancher/k3s/registries.yaml@all",
				"--wait",
			},
		},
		{
			name: "shell metacharacters are not evaluated",
			spec: k3dprovisioner.LaunchSpec{Name: "ci", Args: `--env 'A=$(id)'`, Network: "net"},
			want: []string{"ci", "--env", "A=$(id)", "--network", "net", "--wait"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := k3dprovisioner.BuildCreateArgs(testCase.spec)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestBuildCreateArgs_Errors(t *testing.T) {
	t.Parallel()

	_, err := k3dprovisioner.BuildCreateArgs(k3dprovisioner.LaunchSpec{Name: "  ", Network: "net"})
	require.ErrorIs(t, err, v1alpha1.ErrClusterNameRequired)
	assert.True(t, v1alpha1.IsConfigurationError(err))

	_, err = k3dprovisioner.BuildCreateArgs(k3dprovisioner.LaunchSpec{
		Name:    "ci",
		Args:    `--agents "3`,
		Network: "net",
	})
	require.Error(t, err)
	assert.True(t, v1alpha1.IsConfigurationError(err))
}

func TestK3dLauncher_Create(t *testing.T) {
	t.Parallel()

	fake := &recordingRunner{}
	launcher := k3dprovisioner.NewLauncherWithFactory(fake, stubCreateCommand)

	err := launcher.Create(context.Background(), k3dprovisioner.LaunchSpec{
		Name:               "ci",
		Args:               "--agents 1",
		Network:            "net",
		RegistryConfigPath: "/work/registries.yaml",
	})

	require.NoError(t, err)
	require.Len(t, fake.calls, 1)
	assert.Equal(t, []string{"create"}, fake.names)
	assert.Equal(t, []string{
		"ci", "--agents", "1", "--network", "net",
		"--volume", "/work/registries.yaml:/etc/rancher/k3s/registries.yaml@all",
		"--wait",
	}, fake.calls[0])
}

func TestK3dLauncher_CreateRunError(t *testing.T) {
	t.Parallel()

	fake := &recordingRunner{err: errRunFailed}
	launcher := k3dprovisioner.NewLauncherWithFactory(fake, stubCreateCommand)

	err := launcher.Create(context.Background(), k3dprovisioner.LaunchSpec{Name: "ci", Network: "net"})

	require.ErrorIs(t, err, errRunFailed)
	assert.Contains(t, err.Error(), "cluster create")
}

func TestK3dLauncher_CreateInvalidSpecSkipsRunner(t *testing.T) {
	t.Parallel()

	fake := &recordingRunner{}
	launcher := k3dprovisioner.NewLauncherWithFactory(fake, stubCreateCommand)

	err := launcher.Create(context.Background(), k3dprovisioner.LaunchSpec{Network: "net"})

	require.Error(t, err)
	assert.Empty(t, fake.calls)
}

func TestNewLauncher_UsesK3dCreateCommand(t *testing.T) {
	t.Parallel()

	fake := &recordingRunner{}
	launcher := k3dprovisioner.NewLauncher(fake)

	err := launcher.Create(context.Background(), k3dprovisioner.LaunchSpec{Name: "ci", Network: "net"})

	require.NoError(t, err)
	assert.Equal(t, []string{"create"}, fake.names)
}
