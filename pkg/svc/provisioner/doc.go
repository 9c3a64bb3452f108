// Package provisioner provides the building blocks of a CI cluster deployment.
//
//   - network: resolve or create the docker network the cluster joins
//   - registry: local registry container and its k3s mirror configuration
//   - cluster/k3d: k3d cluster creation through the embedded k3d command
package provisioner
