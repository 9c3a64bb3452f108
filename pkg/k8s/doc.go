// Package k8s builds Kubernetes clients for a kube context and reads the few
// facts k3d-action needs from a cluster: node readiness and pod progress.
//
// For the polling loop itself, see the [readiness] sub-package.
package k8s
