package oci

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/siderolabs/go-retry/retry"
)

// Registry reachability defaults.
const (
	DefaultReadyTimeout      = 30 * time.Second
	DefaultReadyPollInterval = 500 * time.Millisecond
	registryHTTPTimeout      = 2 * time.Second
)

// ErrRegistryNotReady wraps the last probe failure of WaitForRegistry.
var ErrRegistryNotReady = fmt.Errorf("%w: not ready", ErrRegistryUnreachable)

// WaitForRegistry polls baseURL + "/v2/" until the registry answers 200 or 401.
func WaitForRegistry(ctx context.Context, baseURL string, timeout, interval time.Duration) error {
	httpClient := &http.Client{Timeout: registryHTTPTimeout}
	probeURL := baseURL + "/v2/"

	err := retry.Constant(timeout, retry.WithUnits(interval)).
		RetryWithContext(ctx, func(ctx context.Context) error {
			probeErr := probeRegistry(ctx, httpClient, probeURL)
			if probeErr != nil {
				return retry.ExpectedError(probeErr)
			}

			return nil
		})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRegistryNotReady, baseURL, err)
	}

	return nil
}

func probeRegistry(ctx context.Context, httpClient *http.Client, probeURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", probeURL, err)
	}

	_ = resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusUnauthorized:
		return nil
	default:
		return fmt.Errorf("probe %s: unexpected status %d", probeURL, resp.StatusCode)
	}
}
