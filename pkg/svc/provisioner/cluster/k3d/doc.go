// Package k3dprovisioner creates k3d clusters by running the k3d cluster create
// command in-process.
package k3dprovisioner
