package network_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/devantler-tech/k3d-action/pkg/apis/action/v1alpha1"
	"github.com/devantler-tech/k3d-action/pkg/svc/provisioner/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDaemon = errors.New("daemon unavailable")

type fakeStore struct {
	networks map[string]string
	listErr  error
	created  []string
	calls    int
}

func newFakeStore(networks map[string]string) *fakeStore {
	if networks == nil {
		networks = map[string]string{}
	}

	return &fakeStore{networks: networks}
}

func (s *fakeStore) ListNetworks(context.Context) ([]string, error) {
	s.calls++

	if s.listErr != nil {
		return nil, s.listErr
	}

	names := make([]string, 0, len(s.networks))
	for name := range s.networks {
		names = append(names, name)
	}

	return names, nil
}

func (s *fakeStore) CreateNetwork(_ context.Context, name, subnet string) error {
	s.calls++
	s.created = append(s.created, name)
	s.networks[name] = subnet

	return nil
}

func (s *fakeStore) InspectNetworkSubnet(_ context.Context, name string) (string, error) {
	s.calls++

	return s.networks[name], nil
}

func TestResolve_DefaultNetworkWithCustomSubnetFailsBeforeRuntimeCalls(t *testing.T) {
	t.Parallel()

	store := newFakeStore(nil)
	resolver := network.NewResolver(store, &bytes.Buffer{})

	_, err := resolver.Resolve(context.Background(), v1alpha1.DefaultNetwork, "10.0.0.0/24")

	require.ErrorIs(t, err, v1alpha1.ErrDefaultNetworkSubnet)
	assert.True(t, v1alpha1.IsConfigurationError(err))
	assert.Zero(t, store.calls)
}

func TestResolve_EmptyNameFails(t *testing.T) {
	t.Parallel()

	store := newFakeStore(nil)
	resolver := network.NewResolver(store, &bytes.Buffer{})

	_, err := resolver.Resolve(context.Background(), " ", v1alpha1.DefaultSubnetCIDR)

	require.ErrorIs(t, err, network.ErrNetworkNameRequired)
	assert.Zero(t, store.calls)
}

func TestResolve_CreatesDefaultNetwork(t *testing.T) {
	t.Parallel()

	store := newFakeStore(map[string]string{"bridge": "172.17.0.0/16"})
	resolver := network.NewResolver(store, &bytes.Buffer{})

	got, err := resolver.Resolve(context.Background(), v1alpha1.DefaultNetwork, v1alpha1.DefaultSubnetCIDR)

	require.NoError(t, err)
	assert.Equal(t, v1alpha1.NetworkDescriptor{
		Name:       v1alpha1.DefaultNetwork,
		SubnetCIDR: v1alpha1.DefaultSubnetCIDR,
		Created:    true,
	}, got)
	assert.Equal(t, []string{v1alpha1.DefaultNetwork}, store.created)
}

func TestResolve_CustomNetworkWithoutSubnetMustExist(t *testing.T) {
	t.Parallel()

	for _, subnet := range []string{"", v1alpha1.DefaultSubnetCIDR} {
		store := newFakeStore(nil)
		resolver := network.NewResolver(store, &bytes.Buffer{})

		_, err := resolver.Resolve(context.Background(), "ci-net", subnet)

		require.ErrorIs(t, err, v1alpha1.ErrCustomNetworkSubnetRequired)
		assert.True(t, v1alpha1.IsConfigurationError(err))
		assert.Empty(t, store.created)
	}
}

func TestResolve_CreatesCustomNetworkWithExplicitSubnet(t *testing.T) {
	t.Parallel()

	store := newFakeStore(nil)
	resolver := network.NewResolver(store, &bytes.Buffer{})

	got, err := resolver.Resolve(context.Background(), "ci-net", "10.10.0.0/24")

	require.NoError(t, err)
	assert.True(t, got.Created)
	assert.Equal(t, "10.10.0.0/24", got.SubnetCIDR)
	assert.Equal(t, "10.10.0.0/24", store.networks["ci-net"])
}

func TestResolve_ExistingNetworkSubnetWins(t *testing.T) {
	t.Parallel()

	store := newFakeStore(map[string]string{"ci-net": "192.168.5.0/24"})

	var out bytes.Buffer

	resolver := network.NewResolver(store, &out)

	got, err := resolver.Resolve(context.Background(), "ci-net", "10.10.0.0/24")

	require.NoError(t, err)
	assert.Equal(t, v1alpha1.NetworkDescriptor{Name: "ci-net", SubnetCIDR: "192.168.5.0/24"}, got)
	assert.Empty(t, store.created)
	assert.Contains(t, out.String(), "ignoring requested subnet 10.10.0.0/24")
}

func TestResolve_ExistingCustomNetworkWithoutSubnetDoesNotWarn(t *testing.T) {
	t.Parallel()

	store := newFakeStore(map[string]string{"ci-net": "192.168.5.0/24"})

	var out bytes.Buffer

	resolver := network.NewResolver(store, &out)

	got, err := resolver.Resolve(context.Background(), "ci-net", v1alpha1.DefaultSubnetCIDR)

	require.NoError(t, err)
	assert.Equal(t, "192.168.5.0/24", got.SubnetCIDR)
	assert.NotContains(t, out.String(), "ignoring")
}

func TestResolve_MembershipIsExactNameMatch(t *testing.T) {
	t.Parallel()

	store := newFakeStore(map[string]string{"ci-net-2": "10.1.0.0/24", "my-ci-net": "10.2.0.0/24"})
	resolver := network.NewResolver(store, &bytes.Buffer{})

	got, err := resolver.Resolve(context.Background(), "ci-net", "10.3.0.0/24")

	require.NoError(t, err)
	assert.True(t, got.Created)
	assert.Equal(t, []string{"ci-net"}, store.created)
}

func TestResolve_ListErrorIsExternal(t *testing.T) {
	t.Parallel()

	store := newFakeStore(nil)
	store.listErr = errDaemon
	resolver := network.NewResolver(store, &bytes.Buffer{})

	_, err := resolver.Resolve(context.Background(), v1alpha1.DefaultNetwork, v1alpha1.DefaultSubnetCIDR)

	require.ErrorIs(t, err, errDaemon)

	var externalErr *v1alpha1.ExternalCommandError

	require.ErrorAs(t, err, &externalErr)
	assert.Equal(t, "list networks", externalErr.Op)
}
