// Package calibre wraps the command line tools that come with calibre:
// ebook-meta for book metadata and ebook-convert for format conversion.
package calibre

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mrlokans/orgclips/internal/apperr"
)

const DefaultTimeout = 2 * time.Minute

// Runner executes an external command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the command with os/exec. Failures carry the command's
// standard error.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%w: %s: %v", apperr.ErrCollaborator, name, err)
		}
		return nil, fmt.Errorf("%w: %s: %v: %s", apperr.ErrCollaborator, name, err, msg)
	}
	return stdout.Bytes(), nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
