// Package client provides the container and registry clients k3d-action drives.
//
//   - docker: Docker network, volume and container operations
//   - oci: image copy and digest lookups against OCI registries
//   - netretry: retry policy shared by the network-facing clients
package client
