package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/devantler-tech/k3d-action/pkg/apis/action/v1alpha1"
	"github.com/devantler-tech/k3d-action/pkg/client/docker"
	"github.com/devantler-tech/k3d-action/pkg/client/oci"
	"github.com/devantler-tech/k3d-action/pkg/utils/notify"
	"github.com/docker/docker/api/types/container"
)

const (
	maxPort            = 65535
	registryDataTarget = "/var/lib/registry"
)

// Store is the part of the container runtime the attacher needs.
type Store interface {
	ContainerRunning(ctx context.Context, name string) (bool, error)
	ContainerHostPort(ctx context.Context, name string, privatePort uint16) (int, error)
	EnsureImage(ctx context.Context, ref string) error
	CreateVolume(ctx context.Context, name string) error
	RunContainer(ctx context.Context, spec docker.ContainerSpec) (string, error)
	NetworkHasContainer(ctx context.Context, networkName, containerName string) (bool, error)
	ConnectToNetwork(ctx context.Context, networkName, containerName string) error
}

// ReadyCheck blocks until the registry published on port answers.
type ReadyCheck func(ctx context.Context, port int) error

// Attacher ensures the local registry container exists and is reachable from the cluster network.
type Attacher struct {
	store     Store
	writer    io.Writer
	configDir string
	ready     ReadyCheck
}

// Option configures an Attacher.
type Option func(*Attacher)

// WithConfigDir sets the directory registries.yaml is written to. Defaults to the working directory.
func WithConfigDir(dir string) Option {
	return func(a *Attacher) {
		a.configDir = dir
	}
}

// WithReadyCheck replaces the HTTP reachability check run after the registry is started.
// A nil check disables it.
func WithReadyCheck(check ReadyCheck) Option {
	return func(a *Attacher) {
		a.ready = check
	}
}

// NewAttacher returns an attacher backed by store. Messages go to writer, or stdout when nil.
func NewAttacher(store Store, writer io.Writer, opts ...Option) *Attacher {
	if writer == nil {
		writer = os.Stdout
	}

	attacher := &Attacher{
		store:     store,
		writer:    writer,
		configDir: ".",
		ready:     WaitForPublishedRegistry,
	}

	for _, opt := range opts {
		opt(attacher)
	}

	return attacher
}

// Attach writes the mirror configuration for port, starts the registry container
// unless one is already running, and connects it to networkName.
//
// A running registry is kept as-is, even when it publishes a different port.
func (a *Attacher) Attach(
	ctx context.Context,
	networkName string,
	port int,
) (v1alpha1.RegistryDescriptor, error) {
	if port < 1 || port > maxPort {
		return v1alpha1.RegistryDescriptor{}, v1alpha1.NewConfigurationError(
			fmt.Errorf("%w: %d", v1alpha1.ErrInvalidRegistryPort, port),
		)
	}

	configPath, err := WriteMirrorConfig(a.configDir, port)
	if err != nil {
		return v1alpha1.RegistryDescriptor{}, err
	}

	notify.Generatef(a.writer, "wrote registry mirror config %s", configPath)

	descriptor := v1alpha1.NewRegistryDescriptor(port, configPath)

	running, err := a.store.ContainerRunning(ctx, descriptor.ContainerName)
	if err != nil {
		return descriptor, v1alpha1.NewExternalCommandError("inspect registry container", err)
	}

	if running {
		err = a.checkPublishedPort(ctx, descriptor)
	} else {
		err = a.start(ctx, descriptor)
		descriptor.Created = err == nil
	}

	if err != nil {
		return descriptor, err
	}

	err = a.connect(ctx, networkName, descriptor.ContainerName)
	if err != nil {
		return descriptor, err
	}

	if descriptor.Created && a.ready != nil {
		err = a.ready(ctx, port)
		if err != nil {
			return descriptor, v1alpha1.NewExternalCommandError("wait for registry", err)
		}
	}

	return descriptor, nil
}

func (a *Attacher) start(ctx context.Context, descriptor v1alpha1.RegistryDescriptor) error {
	notify.Activityf(a.writer, "starting registry %s on port %d", descriptor.ContainerName, descriptor.Port)

	err := a.store.EnsureImage(ctx, descriptor.Image)
	if err != nil {
		return v1alpha1.NewExternalCommandError("pull "+descriptor.Image, err)
	}

	err = a.store.CreateVolume(ctx, descriptor.VolumeName)
	if err != nil {
		return v1alpha1.NewExternalCommandError("create volume "+descriptor.VolumeName, err)
	}

	_, err = a.store.RunContainer(ctx, docker.ContainerSpec{
		Name:          descriptor.ContainerName,
		Image:         descriptor.Image,
		HostPort:      descriptor.Port,
		ContainerPort: strconv.Itoa(v1alpha1.RegistryContainerPort) + "/tcp",
		VolumeName:    descriptor.VolumeName,
		VolumeTarget:  registryDataTarget,
		RestartPolicy: container.RestartPolicyAlways,
	})
	if err != nil {
		return v1alpha1.NewExternalCommandError("run registry container", err)
	}

	notify.Successf(a.writer, "registry %s started", descriptor.ContainerName)

	return nil
}

func (a *Attacher) checkPublishedPort(ctx context.Context, descriptor v1alpha1.RegistryDescriptor) error {
	published, err := a.store.ContainerHostPort(
		ctx, descriptor.ContainerName, uint16(v1alpha1.RegistryContainerPort),
	)

	switch {
	case errors.Is(err, docker.ErrPortNotPublished):
		notify.Warningf(a.writer,
			"registry %s is running without a published port, expected %d",
			descriptor.ContainerName, descriptor.Port,
		)
	case err != nil:
		return v1alpha1.NewExternalCommandError("inspect registry port", err)
	case published != descriptor.Port:
		notify.Warningf(a.writer,
			"registry %s is already running on port %d, not %d; remove it to change the port",
			descriptor.ContainerName, published, descriptor.Port,
		)
	default:
		notify.Infof(a.writer, "registry %s is already running", descriptor.ContainerName)
	}

	return nil
}

func (a *Attacher) connect(ctx context.Context, networkName, containerName string) error {
	attached, err := a.store.NetworkHasContainer(ctx, networkName, containerName)
	if err != nil {
		return v1alpha1.NewExternalCommandError("inspect network "+networkName, err)
	}

	if attached {
		return nil
	}

	err = a.store.ConnectToNetwork(ctx, networkName, containerName)
	if err != nil {
		return v1alpha1.NewExternalCommandError("connect registry to network "+networkName, err)
	}

	notify.Infof(a.writer, "connected %s to network %s", containerName, networkName)

	return nil
}

// WaitForPublishedRegistry waits until the registry published on port answers on 127.0.0.1.
func WaitForPublishedRegistry(ctx context.Context, port int) error {
	baseURL := "http://127.0.0.1:" + strconv.Itoa(port)

	err := oci.WaitForRegistry(ctx, baseURL, oci.DefaultReadyTimeout, oci.DefaultReadyPollInterval)
	if err != nil {
		return fmt.Errorf("registry on port %d: %w", port, err)
	}

	return nil
}
