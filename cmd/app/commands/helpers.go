// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/allisson/fieldcrypt/internal/app"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// readInput returns value when it was given on the command line, otherwise
// the whole of r with one trailing line break removed.
func readInput(value string, given bool, r io.Reader) (string, error) {
	if given {
		return value, nil
	}
	if r == nil {
		return "", fmt.Errorf("no input provided")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	s := string(data)
	if trimmed, ok := strings.CutSuffix(s, "\r\n"); ok {
		return trimmed, nil
	}
	return strings.TrimSuffix(s, "\n"), nil
}
