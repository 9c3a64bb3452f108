// Package v1alpha1 holds the request and descriptor types k3d-action works with.
package v1alpha1

import (
	"strings"
	"time"
)

// ClusterRequest is the immutable input of a deploy run.
type ClusterRequest struct {
	// Name is the k3d cluster name. Required for deploy.
	Name string `mapstructure:"cluster-name"`
	// Args are raw extra arguments forwarded to k3d cluster create.
	Args string `mapstructure:"args"`
	// Network is the docker network the cluster joins.
	Network string `mapstructure:"network"`
	// SubnetCIDR is the subnet used when the network has to be created.
	SubnetCIDR string `mapstructure:"subnet-cidr"`
	// UseDefaultRegistry enables the local registry.
	UseDefaultRegistry bool `mapstructure:"use-default-registry"`
	// RegistryPort is the host port of the local registry.
	RegistryPort int `mapstructure:"registry-port"`
	// Readiness bounds the node readiness wait.
	Readiness ReadinessOptions `mapstructure:",squash"`
	// TestImage is the image test-registry pushes through the local registry.
	TestImage string `mapstructure:"test-image"`
	// Kubeconfig points at the kubeconfig k3d writes to. Empty uses KUBECONFIG or ~/.kube/config.
	Kubeconfig string `mapstructure:"kubeconfig"`
}

// ReadinessOptions configures the node readiness wait.
// Zero Timeout and zero MaxAttempts mean wait forever.
type ReadinessOptions struct {
	Interval    time.Duration `mapstructure:"readiness-interval"`
	Timeout     time.Duration `mapstructure:"readiness-timeout"`
	MaxAttempts int           `mapstructure:"readiness-max-attempts"`
}

// NewClusterRequest returns a request populated with defaults.
func NewClusterRequest() ClusterRequest {
	return ClusterRequest{
		Network:      DefaultNetwork,
		SubnetCIDR:   DefaultSubnetCIDR,
		RegistryPort: DefaultRegistryPort,
		Readiness: ReadinessOptions{
			Interval: DefaultReadinessInterval,
		},
		TestImage: DefaultTestImage,
	}
}

// ContextName returns the kube context of the requested cluster.
func (r ClusterRequest) ContextName() string {
	return ExpectedContextName(r.Name)
}

// NetworkDescriptor is the resolved network a cluster is attached to.
type NetworkDescriptor struct {
	Name       string
	SubnetCIDR string
	// Created reports whether this run created the network.
	Created bool
}

// RegistryDescriptor describes the local registry wired into the cluster.
type RegistryDescriptor struct {
	ContainerName string
	Hostname      string
	Port          int
	VolumeName    string
	Image         string
	// ConfigPath is the absolute path of the mirror configuration file.
	ConfigPath string
	// Created reports whether this run started the registry container.
	Created bool
}

// NewRegistryDescriptor returns the descriptor of the fixed local registry on the given port.
func NewRegistryDescriptor(port int, configPath string) RegistryDescriptor {
	return RegistryDescriptor{
		ContainerName: RegistryContainerName,
		Hostname:      RegistryHostname,
		Port:          port,
		VolumeName:    RegistryVolumeName,
		Image:         RegistryImage,
		ConfigPath:    configPath,
	}
}

// NodeStatus is the readiness status string of a single node.
type NodeStatus struct {
	Node   string
	Status string
}

// NodeReadyStatus is the only status value that counts as ready.
const NodeReadyStatus = "Ready"

// NodeReadinessSnapshot is one poll of all node statuses.
type NodeReadinessSnapshot []NodeStatus

// AllReady reports whether the snapshot is non-empty and every status is exactly "Ready".
// An empty status, from a transient read, is not ready.
func (s NodeReadinessSnapshot) AllReady() bool {
	if len(s) == 0 {
		return false
	}

	for _, node := range s {
		if node.Status == "" || node.Status != NodeReadyStatus {
			return false
		}
	}

	return true
}

// String renders the snapshot as "node=status" pairs.
func (s NodeReadinessSnapshot) String() string {
	parts := make([]string, 0, len(s))
	for _, node := range s {
		status := node.Status
		if status == "" {
			status = "<empty>"
		}

		parts = append(parts, node.Node+"="+status)
	}

	return strings.Join(parts, ", ")
}
