package docker

import (
	"context"
	"fmt"
	"io"
	"strconv"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/go-connections/nat"
)

const (
	runningState = "running"
	// PublishHostIP is the host address published container ports bind to.
	PublishHostIP = "0.0.0.0"
)

// ContainerSpec describes a long-running container with one published port and
// one named volume.
type ContainerSpec struct {
	Name  string
	Image string
	// HostPort is published on PublishHostIP and forwarded to ContainerPort.
	HostPort int
	// ContainerPort uses docker notation, e.g. "5000/tcp".
	ContainerPort string
	VolumeName    string
	VolumeTarget  string
	RestartPolicy container.RestartPolicyMode
	Labels        map[string]string
}

// ContainerRunning reports whether a container with exactly the given name is running.
func (e *Engine) ContainerRunning(ctx context.Context, name string) (bool, error) {
	summary, found, err := e.findContainer(ctx, name)
	if err != nil || !found {
		return false, err
	}

	return summary.State == runningState, nil
}

// ContainerHostPort returns the host port a container publishes for privatePort.
func (e *Engine) ContainerHostPort(ctx context.Context, name string, privatePort uint16) (int, error) {
	summary, found, err := e.findContainer(ctx, name)
	if err != nil {
		return 0, err
	}

	if !found {
		return 0, fmt.Errorf("%w: %s", ErrContainerNotFound, name)
	}

	for _, port := range summary.Ports {
		if port.PrivatePort == privatePort && port.PublicPort > 0 {
			return int(port.PublicPort), nil
		}
	}

	return 0, fmt.Errorf("%w: %s %d", ErrPortNotPublished, name, privatePort)
}

// EnsureImage pulls ref unless the engine already has it.
func (e *Engine) EnsureImage(ctx context.Context, ref string) error {
	_, err := e.client.ImageInspect(ctx, ref)
	if err == nil {
		return nil
	}

	if !cerrdefs.IsNotFound(err) {
		return fmt.Errorf("failed to inspect image %s: %w", ref, err)
	}

	reader, err := e.client.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", ref, err)
	}

	// The pull only completes once the progress stream is drained.
	_, err = io.Copy(io.Discard, reader)
	closeErr := reader.Close()

	if err != nil {
		return fmt.Errorf("failed to read image pull output: %w", err)
	}

	if closeErr != nil {
		return fmt.Errorf("failed to close image pull reader: %w", closeErr)
	}

	return nil
}

// CreateVolume creates a named volume. The engine returns the existing volume when
// one with the same name and driver is present.
func (e *Engine) CreateVolume(ctx context.Context, name string) error {
	_, err := e.client.VolumeCreate(ctx, volume.CreateOptions{
		Name:   name,
		Labels: map[string]string{ManagedLabelKey: "true"},
	})
	if err != nil {
		return fmt.Errorf("failed to create volume %s: %w", name, err)
	}

	return nil
}

// RunContainer creates and starts a container and returns its ID.
func (e *Engine) RunContainer(ctx context.Context, spec ContainerSpec) (string, error) {
	containerPort, err := nat.NewPort(nat.SplitProtoPort(spec.ContainerPort))
	if err != nil {
		return "", fmt.Errorf("invalid container port %q: %w", spec.ContainerPort, err)
	}

	resp, err := e.client.ContainerCreate(
		ctx,
		buildContainerConfig(spec, containerPort),
		buildHostConfig(spec, containerPort),
		nil,
		nil,
		spec.Name,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create container %s: %w", spec.Name, err)
	}

	err = e.client.ContainerStart(ctx, resp.ID, container.StartOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to start container %s: %w", spec.Name, err)
	}

	return resp.ID, nil
}

func (e *Engine) findContainer(ctx context.Context, name string) (container.Summary, bool, error) {
	containers, err := e.client.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", "^/"+name+"$")),
	})
	if err != nil {
		return container.Summary{}, false, fmt.Errorf("failed to list containers: %w", err)
	}

	// The name filter is a regular expression; compare again to be exact.
	for _, summary := range containers {
		for _, containerName := range summary.Names {
			if containerName == "/"+name || containerName == name {
				return summary, true, nil
			}
		}
	}

	return container.Summary{}, false, nil
}

func buildContainerConfig(spec ContainerSpec, containerPort nat.Port) *container.Config {
	labels := map[string]string{ManagedLabelKey: "true"}
	for key, value := range spec.Labels {
		labels[key] = value
	}

	return &container.Config{
		Image: spec.Image,
		ExposedPorts: nat.PortSet{
			containerPort: struct{}{},
		},
		Labels: labels,
	}
}

func buildHostConfig(spec ContainerSpec, containerPort nat.Port) *container.HostConfig {
	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			containerPort: []nat.PortBinding{
				{HostIP: PublishHostIP, HostPort: strconv.Itoa(spec.HostPort)},
			},
		},
		RestartPolicy: container.RestartPolicy{Name: spec.RestartPolicy},
	}

	if spec.VolumeName != "" {
		hostConfig.Mounts = []mount.Mount{
			{
				Type:   mount.TypeVolume,
				Source: spec.VolumeName,
				Target: spec.VolumeTarget,
			},
		}
	}

	return hostConfig
}
