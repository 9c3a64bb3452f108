package oci

import (
	"fmt"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
)

// Target addresses one tag in a registry.
type Target struct {
	// RegistryEndpoint is the registry host[:port], e.g. "localhost:5000".
	RegistryEndpoint string
	// Repository is the repository path, e.g. "k3d-action/registry-test".
	Repository string
	// Tag defaults to "latest".
	Tag string
	// Insecure allows plain HTTP.
	Insecure bool
}

// String returns endpoint/repository:tag.
func (t Target) String() string {
	tag := t.Tag
	if tag == "" {
		tag = "latest"
	}

	return fmt.Sprintf("%s/%s:%s", strings.TrimSuffix(t.RegistryEndpoint, "/"), t.Repository, tag)
}

// Reference parses the target into a go-containerregistry reference.
func (t Target) Reference() (name.Reference, error) {
	if t.RegistryEndpoint == "" {
		return nil, ErrRegistryEndpointRequired
	}

	if t.Repository == "" {
		return nil, ErrRepositoryRequired
	}

	nameOpts := []name.Option{name.WeakValidation}
	if t.Insecure {
		nameOpts = append(nameOpts, name.Insecure)
	}

	ref, err := name.ParseReference(t.String(), nameOpts...)
	if err != nil {
		return nil, fmt.Errorf("parse reference: %w", err)
	}

	return ref, nil
}
