package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

const (
	// GitHubOutputEnv names the file GitHub Actions collects step outputs from.
	GitHubOutputEnv = "GITHUB_OUTPUT"

	// NetworkKey is the output holding the resolved network name.
	NetworkKey = "network"
	// SubnetCIDRKey is the output holding the resolved subnet.
	SubnetCIDRKey = "subnet-CIDR"

	outputFileMode = 0o644
)

var (
	// ErrEmptyKey is returned for an empty output name.
	ErrEmptyKey = errors.New("output key is empty")
	// ErrMultilineValue is returned for values spanning several lines.
	ErrMultilineValue = errors.New("output value must be a single line")
)

// Writer publishes key/value outputs.
type Writer interface {
	Set(key, value string) error
}

// GitHubWriter appends key=value lines to the file named by $GITHUB_OUTPUT.
// Without that file it prints the lines to its fallback writer.
type GitHubWriter struct {
	mu       sync.Mutex
	path     string
	fallback io.Writer
}

// NewGitHubWriter reads $GITHUB_OUTPUT and returns a writer for it.
// A nil fallback prints to stdout.
func NewGitHubWriter(fallback io.Writer) *GitHubWriter {
	return NewFileWriter(os.Getenv(GitHubOutputEnv), fallback)
}

// NewFileWriter returns a writer appending to path. An empty path uses fallback.
func NewFileWriter(path string, fallback io.Writer) *GitHubWriter {
	if fallback == nil {
		fallback = os.Stdout
	}

	return &GitHubWriter{path: path, fallback: fallback}
}

// Set publishes one output.
func (w *GitHubWriter) Set(key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}

	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%w: %s", ErrMultilineValue, key)
	}

	line := key + "=" + value + "\n"

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.path == "" {
		_, err := io.WriteString(w.fallback, line)
		if err != nil {
			return fmt.Errorf("print output %s: %w", key, err)
		}

		return nil
	}

	//nolint:gosec // the output file path is provided by the CI runner
	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, outputFileMode)
	if err != nil {
		return fmt.Errorf("open %s: %w", w.path, err)
	}

	_, writeErr := io.WriteString(file, line)
	closeErr := file.Close()

	if writeErr != nil {
		return fmt.Errorf("write output %s: %w", key, writeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close %s: %w", w.path, closeErr)
	}

	return nil
}
