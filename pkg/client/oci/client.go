package oci

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/devantler-tech/k3d-action/pkg/client/netretry"
	"github.com/google/go-containerregistry/pkg/crane"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"
)

// Client copies images into a registry and checks what it serves.
type Client interface {
	// Copy copies source (any pullable reference) to target and returns the pushed digest.
	Copy(ctx context.Context, source string, target Target) (string, error)
	// Digest returns the digest the registry serves for target.
	Digest(ctx context.Context, target Target) (string, error)
}

type client struct {
	retry netretry.Policy
}

// NewClient creates a registry client that retries transient failures with policy.
func NewClient(policy netretry.Policy) Client {
	return &client{retry: policy}
}

// Copy implements Client.
func (c *client) Copy(ctx context.Context, source string, target Target) (string, error) {
	if source == "" {
		return "", ErrSourceRequired
	}

	ref, err := target.Reference()
	if err != nil {
		return "", err
	}

	craneOpts := []crane.Option{crane.WithContext(ctx)}
	if target.Insecure {
		craneOpts = append(craneOpts, crane.Insecure)
	}

	err = netretry.Do(ctx, c.retry, func(context.Context) error {
		return crane.Copy(source, ref.String(), craneOpts...)
	})
	if err != nil {
		return "", fmt.Errorf("copy %s to %s: %w", source, ref, classifyRegistryError(err))
	}

	return c.Digest(ctx, target)
}

// Digest implements Client.
func (c *client) Digest(ctx context.Context, target Target) (string, error) {
	ref, err := target.Reference()
	if err != nil {
		return "", err
	}

	var digest string

	err = netretry.Do(ctx, c.retry, func(ctx context.Context) error {
		descriptor, headErr := remote.Head(ref, remote.WithContext(ctx))
		if headErr != nil {
			return headErr
		}

		digest = descriptor.Digest.String()

		return nil
	})
	if err != nil {
		if isNotFoundError(err) {
			return "", fmt.Errorf("%w: %s", ErrArtifactNotFound, ref)
		}

		return "", fmt.Errorf("head %s: %w", ref, classifyRegistryError(err))
	}

	return digest, nil
}

// isNotFoundError checks if the error indicates the artifact doesn't exist.
func isNotFoundError(err error) bool {
	var transportErr *transport.Error
	if errors.As(err, &transportErr) && transportErr.StatusCode == http.StatusNotFound {
		return true
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "manifest unknown") ||
		strings.Contains(errStr, "name unknown") ||
		strings.Contains(errStr, "name_unknown")
}

// classifyRegistryError maps low-level failures onto the package sentinels while
// keeping the original error in the chain.
func classifyRegistryError(err error) error {
	var transportErr *transport.Error
	if errors.As(err, &transportErr) {
		switch transportErr.StatusCode {
		case http.StatusUnauthorized:
			return errors.Join(ErrRegistryAuthRequired, err)
		case http.StatusForbidden:
			return errors.Join(ErrRegistryPermissionDenied, err)
		}
	}

	lowerErr := strings.ToLower(err.Error())
	if strings.Contains(lowerErr, "connection refused") ||
		strings.Contains(lowerErr, "no such host") {
		return errors.Join(ErrRegistryUnreachable, err)
	}

	return err
}
