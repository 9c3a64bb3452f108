package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/devantler-tech/k3d-action/pkg/apis/action/v1alpha1"
	"github.com/devantler-tech/k3d-action/pkg/fsutil"
	"sigs.k8s.io/yaml"
)

// ErrMirrorNotConfigured is returned when a mirror config lacks the expected endpoint.
var ErrMirrorNotConfigured = errors.New("registry mirror not configured")

// MirrorConfig is the subset of the k3s registries.yaml format k3d-action writes.
type MirrorConfig struct {
	Mirrors map[string]Mirror `json:"mirrors"`
}

// Mirror lists the endpoints a registry host is pulled through.
type Mirror struct {
	Endpoint []string `json:"endpoint"`
}

// NewMirrorConfig maps registry.localhost:<port> to the registry container on the
// cluster network.
func NewMirrorConfig(port int) MirrorConfig {
	portText := strconv.Itoa(port)

	return MirrorConfig{
		Mirrors: map[string]Mirror{
			v1alpha1.RegistryHostname + ":" + portText: {
				Endpoint: []string{"http://" + v1alpha1.RegistryContainerName + ":" + portText},
			},
		},
	}
}

// Render marshals the configuration as YAML.
func (c MirrorConfig) Render() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal mirror config: %w", err)
	}

	return data, nil
}

// WriteMirrorConfig writes registries.yaml for port into dir, replacing any
// previous file, and returns its absolute path.
func WriteMirrorConfig(dir string, port int) (string, error) {
	data, err := NewMirrorConfig(port).Render()
	if err != nil {
		return "", err
	}

	path, err := fsutil.WriteFile(filepath.Join(dir, v1alpha1.RegistryConfigFile), data)
	if err != nil {
		return "", fmt.Errorf("write mirror config: %w", err)
	}

	return path, nil
}

// ReadMirrorConfig loads a registries.yaml file.
func ReadMirrorConfig(path string) (MirrorConfig, error) {
	//nolint:gosec // path is the mirror config written by WriteMirrorConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return MirrorConfig{}, fmt.Errorf("read mirror config %s: %w", path, err)
	}

	var cfg MirrorConfig

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return MirrorConfig{}, fmt.Errorf("parse mirror config %s: %w", path, err)
	}

	return cfg, nil
}

// VerifyMirrorConfig checks that the file at path maps registry.localhost:<port>
// to the registry container on the same port.
func VerifyMirrorConfig(path string, port int) error {
	cfg, err := ReadMirrorConfig(path)
	if err != nil {
		return err
	}

	want := NewMirrorConfig(port)
	for host, mirror := range want.Mirrors {
		if !slices.Equal(cfg.Mirrors[host].Endpoint, mirror.Endpoint) {
			return fmt.Errorf("%w: %s does not map %s to %v", ErrMirrorNotConfigured, path, host, mirror.Endpoint)
		}
	}

	return nil
}
