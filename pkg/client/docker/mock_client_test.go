package docker_test

import (
	"context"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/mock"
)

// mockAPIClient implements the Docker API methods the engine uses. Any other
// method panics through the nil embedded interface.
type mockAPIClient struct {
	mock.Mock
	client.APIClient
}

func (m *mockAPIClient) NetworkList(ctx context.Context, options network.ListOptions) ([]network.Summary, error) {
	args := m.Called(ctx, options)

	networks, _ := args.Get(0).([]network.Summary)

	return networks, args.Error(1)
}

func (m *mockAPIClient) NetworkCreate(
	ctx context.Context,
	name string,
	options network.CreateOptions,
) (network.CreateResponse, error) {
	args := m.Called(ctx, name, options)

	return network.CreateResponse{ID: name + "-id"}, args.Error(0)
}

func (m *mockAPIClient) NetworkInspect(
	ctx context.Context,
	networkID string,
	options network.InspectOptions,
) (network.Inspect, error) {
	args := m.Called(ctx, networkID, options)

	resource, _ := args.Get(0).(network.Inspect)

	return resource, args.Error(1)
}

func (m *mockAPIClient) NetworkConnect(
	ctx context.Context,
	networkID, containerID string,
	config *network.EndpointSettings,
) error {
	return m.Called(ctx, networkID, containerID, config).Error(0)
}

func (m *mockAPIClient) ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error) {
	args := m.Called(ctx, options)

	containers, _ := args.Get(0).([]container.Summary)

	return containers, args.Error(1)
}

func (m *mockAPIClient) ContainerCreate(
	ctx context.Context,
	config *container.Config,
	hostConfig *container.HostConfig,
	networkingConfig *network.NetworkingConfig,
	platform *ocispec.Platform,
	containerName string,
) (container.CreateResponse, error) {
	args := m.Called(ctx, config, hostConfig, networkingConfig, platform, containerName)

	resp, _ := args.Get(0).(container.CreateResponse)

	return resp, args.Error(1)
}

func (m *mockAPIClient) ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error {
	return m.Called(ctx, containerID, options).Error(0)
}

func (m *mockAPIClient) ImageInspect(
	ctx context.Context,
	imageID string,
	_ ...client.ImageInspectOption,
) (image.InspectResponse, error) {
	args := m.Called(ctx, imageID)

	resp, _ := args.Get(0).(image.InspectResponse)

	return resp, args.Error(1)
}

func (m *mockAPIClient) ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, ref, options)

	reader, _ := args.Get(0).(io.ReadCloser)

	return reader, args.Error(1)
}

func (m *mockAPIClient) VolumeCreate(ctx context.Context, options volume.CreateOptions) (volume.Volume, error) {
	args := m.Called(ctx, options)

	return volume.Volume{Name: options.Name}, args.Error(0)
}

func (m *mockAPIClient) Close() error {
	return m.Called().Error(0)
}
