package oci

import "errors"

// Registry errors.
var (
	// ErrRegistryEndpointRequired indicates that the registry endpoint is missing.
	ErrRegistryEndpointRequired = errors.New("registry endpoint is required")
	// ErrRepositoryRequired indicates that no repository was provided.
	ErrRepositoryRequired = errors.New("repository is required")
	// ErrSourceRequired indicates that no source image was provided.
	ErrSourceRequired = errors.New("source image is required")
	// ErrRegistryUnreachable is returned when the registry cannot be reached.
	ErrRegistryUnreachable = errors.New("registry is unreachable")
	// ErrRegistryAuthRequired is returned when the registry asks for credentials.
	ErrRegistryAuthRequired = errors.New("registry requires authentication")
	// ErrRegistryPermissionDenied is returned when the registry refuses access.
	ErrRegistryPermissionDenied = errors.New("registry access denied")
	// ErrArtifactNotFound is returned when a pushed tag cannot be found afterwards.
	ErrArtifactNotFound = errors.New("artifact not found")
	// ErrDigestMismatch is returned when the registry serves a different digest than was pushed.
	ErrDigestMismatch = errors.New("digest mismatch")
)
