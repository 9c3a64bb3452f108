package output_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/devantler-tech/k3d-action/pkg/ci/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWriter_AppendsLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "github_output")
	require.NoError(t, os.WriteFile(path, []byte("previous=1\n"), 0o600))

	var fallback bytes.Buffer

	writer := output.NewFileWriter(path, &fallback)

	require.NoError(t, writer.Set(output.NetworkKey, "k3d-action-bridge-network"))
	require.NoError(t, writer.Set(output.SubnetCIDRKey, "172.16.0.0/24"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"previous=1\nnetwork=k3d-action-bridge-network\nsubnet-CIDR=172.16.0.0/24\n",
		string(data),
	)
	assert.Empty(t, fallback.String())
}

func TestFileWriter_FallsBackWithoutPath(t *testing.T) {
	t.Parallel()

	var fallback bytes.Buffer

	writer := output.NewFileWriter("", &fallback)

	require.NoError(t, writer.Set("network", "ci-net"))
	assert.Equal(t, "network=ci-net\n", fallback.String())
}

func TestFileWriter_RejectsInvalidOutputs(t *testing.T) {
	t.Parallel()

	writer := output.NewFileWriter("", &bytes.Buffer{})

	require.ErrorIs(t, writer.Set(" ", "value"), output.ErrEmptyKey)
	require.ErrorIs(t, writer.Set("network", "a\nb"), output.ErrMultilineValue)
}

func TestFileWriter_OpenError(t *testing.T) {
	t.Parallel()

	writer := output.NewFileWriter(filepath.Join(t.TempDir(), "missing", "out"), &bytes.Buffer{})

	require.Error(t, writer.Set("network", "ci-net"))
}

//nolint:paralleltest // t.Setenv cannot be combined with t.Parallel.
func TestNewGitHubWriter_ReadsEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "github_output")
	t.Setenv(output.GitHubOutputEnv, path)

	writer := output.NewGitHubWriter(&bytes.Buffer{})

	require.NoError(t, writer.Set("network", "ci-net"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "network=ci-net\n", string(data))
}
