// Package configmanager loads the k3d-action request from defaults, an optional
// config file, an optional dotenv file, environment variables and command flags.
//
// Precedence from lowest to highest: defaults, config file, dotenv file,
// environment, flags. Environment variables keep their historical names
// (CLUSTER_NAME, NETWORK, SUBNET_CIDR, ...).
package configmanager
