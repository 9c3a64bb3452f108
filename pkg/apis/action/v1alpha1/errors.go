package v1alpha1

import (
	"errors"
	"fmt"
)

// Configuration errors.
var (
	// ErrClusterNameRequired is returned when deploy runs without CLUSTER_NAME.
	ErrClusterNameRequired = errors.New("CLUSTER_NAME is required")
	// ErrDefaultNetworkSubnet is returned when the default network is paired with a custom subnet.
	ErrDefaultNetworkSubnet = errors.New(
		"the default network " + DefaultNetwork + " must use subnet " + DefaultSubnetCIDR,
	)
	// ErrCustomNetworkSubnetRequired is returned when a new custom network has no explicit subnet.
	ErrCustomNetworkSubnetRequired = errors.New(
		"a new custom network requires an explicit SUBNET_CIDR",
	)
	// ErrInvalidRegistryPort is returned for ports outside 1-65535.
	ErrInvalidRegistryPort = errors.New("invalid REGISTRY_PORT")
)

// ConfigurationError marks invalid or missing input. It is reported with usage text
// and exit status 1.
type ConfigurationError struct {
	Err error
}

// NewConfigurationError wraps err as a ConfigurationError.
func NewConfigurationError(err error) *ConfigurationError {
	return &ConfigurationError{Err: err}
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e == nil || e.Err == nil {
		return "configuration error"
	}

	return "configuration error: " + e.Err.Error()
}

// Unwrap exposes the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError

	return errors.As(err, &cfgErr)
}

// ExternalCommandError marks a failed call to the container runtime, k3d or the
// Kubernetes API. It is never retried.
type ExternalCommandError struct {
	Op  string
	Err error
}

// NewExternalCommandError wraps err with the operation that failed.
func NewExternalCommandError(op string, err error) *ExternalCommandError {
	return &ExternalCommandError{Op: op, Err: err}
}

// Error implements the error interface.
func (e *ExternalCommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ExternalCommandError) Unwrap() error {
	return e.Err
}
