// Package writers resolves log output destinations from CLI flag values.
package writers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Resolve turns an output specification into an io.Writer.
// Supported formats:
//   - "stderr" or "" - writes to os.Stderr
//   - "stdout" - writes to os.Stdout
//   - "file:///path/to/file" - writes to file (creates directories if needed)
//   - "/path/to/file" - writes to file (creates directories if needed)
func Resolve(output string) (io.Writer, error) {
	switch {
	case output == "" || output == "stderr":
		return os.Stderr, nil
	case output == "stdout":
		return os.Stdout, nil
	case strings.HasPrefix(output, "file://"):
		return openFile(strings.TrimPrefix(output, "file://"))
	case looksLikePath(output):
		return openFile(output)
	default:
		return nil, fmt.Errorf("unsupported log output: %q", output)
	}
}

// looksLikePath reports whether the string names a local file rather than a
// scheme or keyword.
func looksLikePath(output string) bool {
	if strings.Contains(output, "://") {
		return false
	}
	return strings.Contains(output, "/") || strings.Contains(output, "\\")
}

// openFile opens the log file for appending, creating parent directories as
// needed.
func openFile(path string) (io.Writer, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file, nil
}
