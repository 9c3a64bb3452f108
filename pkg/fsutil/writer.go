package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEmptyOutputPath is returned when a file is written without a path.
var ErrEmptyOutputPath = errors.New("output path cannot be empty")

const (
	dirPermUserGroupRX = 0o750
	filePermReadable   = 0o644
)

// WriteFile writes content to output, creating missing parent directories and
// replacing any previous file. It returns the absolute path written.
func WriteFile(output string, content []byte) (string, error) {
	if output == "" {
		return "", ErrEmptyOutputPath
	}

	output, err := filepath.Abs(filepath.Clean(output))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", output, err)
	}

	dir := filepath.Dir(output)

	err = os.MkdirAll(dir, dirPermUserGroupRX)
	if err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	//nolint:gosec // generated files are read by other processes
	err = os.WriteFile(output, content, filePermReadable)
	if err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", output, err)
	}

	return output, nil
}
