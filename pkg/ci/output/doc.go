// Package output publishes step outputs to the CI runner.
package output
