package v1alpha1

import "time"

const (
	// DefaultNetwork is the bridge network clusters are attached to when NETWORK is not set.
	DefaultNetwork = "k3d-action-bridge-network"
	// DefaultSubnetCIDR is the subnet of DefaultNetwork.
	DefaultSubnetCIDR = "172.16.0.0/24"

	// DefaultRegistryPort is the host port the local registry is published on.
	DefaultRegistryPort = 5000
	// RegistryContainerPort is the port the registry listens on inside its container.
	RegistryContainerPort = 5000
	// RegistryContainerName is the fixed name of the local registry container.
	// Nodes reach the registry through this name on the shared network.
	RegistryContainerName = "registry.local"
	// RegistryHostname is the hostname workloads use to reference images in the local registry.
	RegistryHostname = "registry.localhost"
	// RegistryVolumeName is the named volume holding registry data.
	RegistryVolumeName = "local_registry"
	// RegistryImage is the image the local registry container runs.
	RegistryImage = "registry:2"
	// RegistryConfigFile is the mirror configuration file written to the working directory.
	RegistryConfigFile = "registries.yaml"
	// RegistryConfigMountPath is where k3s reads its mirror configuration from.
	RegistryConfigMountPath = "/etc/rancher/k3s/registries.yaml"

	// DefaultReadinessInterval is the delay between two node readiness polls.
	DefaultReadinessInterval = time.Second

	// DefaultTestImage is the image test-registry copies into the local registry.
	DefaultTestImage = "docker.io/library/busybox:1.36"

	// KubeContextPrefix prefixes the cluster name in the kube context k3d writes.
	KubeContextPrefix = "k3d-"
)

// ExpectedContextName returns the kube context k3d creates for a cluster.
func ExpectedContextName(clusterName string) string {
	return KubeContextPrefix + clusterName
}
