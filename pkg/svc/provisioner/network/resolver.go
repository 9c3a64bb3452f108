package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/devantler-tech/k3d-action/pkg/apis/action/v1alpha1"
	"github.com/devantler-tech/k3d-action/pkg/utils/notify"
)

// ErrNetworkNameRequired is returned for an empty network name.
var ErrNetworkNameRequired = errors.New("network name is required")

// Store is the part of the container runtime the resolver needs.
type Store interface {
	ListNetworks(ctx context.Context) ([]string, error)
	CreateNetwork(ctx context.Context, name, subnet string) error
	InspectNetworkSubnet(ctx context.Context, name string) (string, error)
}

// Resolver creates or reuses the cluster network.
type Resolver struct {
	store  Store
	writer io.Writer
}

// NewResolver returns a resolver backed by store. Warnings go to writer, or stdout when nil.
func NewResolver(store Store, writer io.Writer) *Resolver {
	if writer == nil {
		writer = os.Stdout
	}

	return &Resolver{store: store, writer: writer}
}

// ValidateRequest checks the network and subnet pairing without touching the runtime.
// The default network always uses the default subnet.
func ValidateRequest(name, subnet string) error {
	if name == "" {
		return v1alpha1.NewConfigurationError(ErrNetworkNameRequired)
	}

	if name == v1alpha1.DefaultNetwork && subnet != v1alpha1.DefaultSubnetCIDR {
		return v1alpha1.NewConfigurationError(v1alpha1.ErrDefaultNetworkSubnet)
	}

	return nil
}

// Resolve returns the descriptor of network name.
//
// A network that already exists is reused as-is and its first IPAM subnet is
// reported, even when it differs from subnet. A missing network is created with
// subnet, except for a custom network without an explicit subnet, which is a
// configuration error.
func (r *Resolver) Resolve(ctx context.Context, name, subnet string) (v1alpha1.NetworkDescriptor, error) {
	name = strings.TrimSpace(name)
	subnet = strings.TrimSpace(subnet)

	err := ValidateRequest(name, subnet)
	if err != nil {
		return v1alpha1.NetworkDescriptor{}, err
	}

	names, err := r.store.ListNetworks(ctx)
	if err != nil {
		return v1alpha1.NetworkDescriptor{}, v1alpha1.NewExternalCommandError("list networks", err)
	}

	if !slices.Contains(names, name) {
		return r.create(ctx, name, subnet)
	}

	existing, err := r.store.InspectNetworkSubnet(ctx, name)
	if err != nil {
		return v1alpha1.NetworkDescriptor{}, v1alpha1.NewExternalCommandError(
			"inspect network "+name, err,
		)
	}

	if existing != subnet && subnetRequested(name, subnet) {
		notify.Warningf(r.writer,
			"network %s already exists with subnet %s, ignoring requested subnet %s",
			name, existing, subnet,
		)
	}

	notify.Infof(r.writer, "using existing network %s (%s)", name, existing)

	return v1alpha1.NetworkDescriptor{Name: name, SubnetCIDR: existing}, nil
}

func (r *Resolver) create(ctx context.Context, name, subnet string) (v1alpha1.NetworkDescriptor, error) {
	if !subnetRequested(name, subnet) && name != v1alpha1.DefaultNetwork {
		return v1alpha1.NetworkDescriptor{}, v1alpha1.NewConfigurationError(
			fmt.Errorf("network %s does not exist: %w", name, v1alpha1.ErrCustomNetworkSubnetRequired),
		)
	}

	notify.Activityf(r.writer, "creating network %s (%s)", name, subnet)

	err := r.store.CreateNetwork(ctx, name, subnet)
	if err != nil {
		return v1alpha1.NetworkDescriptor{}, v1alpha1.NewExternalCommandError("create network "+name, err)
	}

	return v1alpha1.NetworkDescriptor{Name: name, SubnetCIDR: subnet, Created: true}, nil
}

// subnetRequested reports whether subnet was chosen for a custom network.
// The default subnet counts as unspecified there.
func subnetRequested(name, subnet string) bool {
	if subnet == "" {
		return false
	}

	return name == v1alpha1.DefaultNetwork || subnet != v1alpha1.DefaultSubnetCIDR
}
