package readiness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devantler-tech/k3d-action/pkg/apis/action/v1alpha1"
	"k8s.io/apimachinery/pkg/util/wait"
)

// NodeStatusSource reports the readiness status of every node of a cluster.
type NodeStatusSource interface {
	NodeStatuses(ctx context.Context) (v1alpha1.NodeReadinessSnapshot, error)
}

// NodeStatusSourceFunc adapts a function to NodeStatusSource.
type NodeStatusSourceFunc func(ctx context.Context) (v1alpha1.NodeReadinessSnapshot, error)

// NodeStatuses implements NodeStatusSource.
func (f NodeStatusSourceFunc) NodeStatuses(ctx context.Context) (v1alpha1.NodeReadinessSnapshot, error) {
	return f(ctx)
}

// Options bounds WaitForNodesReady. Zero values mean: poll every second, forever.
type Options struct {
	Interval    time.Duration
	Timeout     time.Duration
	MaxAttempts int
	// OnPoll, when set, observes every snapshot that is not yet ready.
	OnPoll func(attempt int, snapshot v1alpha1.NodeReadinessSnapshot)
}

// OptionsFrom converts the request's readiness settings.
func OptionsFrom(settings v1alpha1.ReadinessOptions) Options {
	return Options{
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		MaxAttempts: settings.MaxAttempts,
	}
}

// WaitForNodesReady polls source until every node reports exactly "Ready" and
// returns the number of polls it took. The first poll happens immediately.
func WaitForNodesReady(ctx context.Context, source NodeStatusSource, opts Options) (int, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = v1alpha1.DefaultReadinessInterval
	}

	pollCtx := ctx

	if opts.Timeout > 0 {
		var cancel context.CancelFunc

		pollCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	attempts := 0

	var last v1alpha1.NodeReadinessSnapshot

	err := wait.PollUntilContextCancel(pollCtx, interval, true, func(ctx context.Context) (bool, error) {
		attempts++

		snapshot, err := source.NodeStatuses(ctx)
		if err != nil {
			return false, fmt.Errorf("query node statuses: %w", err)
		}

		last = snapshot

		if snapshot.AllReady() {
			return true, nil
		}

		if opts.OnPoll != nil {
			opts.OnPoll(attempts, snapshot)
		}

		if opts.MaxAttempts > 0 && attempts >= opts.MaxAttempts {
			return false, fmt.Errorf("%w after %d polls: %s", ErrMaxAttemptsExceeded, attempts, snapshot)
		}

		return false, nil
	})
	if err != nil {
		if ctx.Err() == nil && errors.Is(pollCtx.Err(), context.DeadlineExceeded) {
			return attempts, fmt.Errorf("%w after %s: %s", ErrTimeoutExceeded, opts.Timeout, last)
		}

		return attempts, err
	}

	return attempts, nil
}
