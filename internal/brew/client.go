package brew

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Client drives the brew executable. It is not safe for concurrent use;
// an import run is strictly sequential.
type Client struct {
	bin    string
	stdout io.Writer
	stderr io.Writer

	prefix    string
	attempted map[string]bool
}

// NewClient returns a Client for the given brew executable.
// An empty bin means "brew" from PATH.
func NewClient(bin string) *Client {
	if bin == "" {
		bin = "brew"
	}
	return &Client{
		bin:       bin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		attempted: make(map[string]bool),
	}
}

// SetOutput sets where verbose installs stream their output.
func (c *Client) SetOutput(stdout, stderr io.Writer) {
	c.stdout = stdout
	c.stderr = stderr
}

func (c *Client) command(ctx context.Context, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, c.bin, args...)
}

// output runs brew and returns stdout, folding stderr into the error.
func (c *Client) output(ctx context.Context, args ...string) ([]byte, error) {
	out, err := c.command(ctx, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("brew %s failed: %w (stderr: %s)",
				args[0], err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("brew %s failed: %w", args[0], err)
	}
	return out, nil
}

// Prefix returns the Homebrew installation prefix.
func (c *Client) Prefix(ctx context.Context) (string, error) {
	if c.prefix != "" {
		return c.prefix, nil
	}
	out, err := c.output(ctx, "--prefix")
	if err != nil {
		return "", err
	}
	c.prefix = strings.TrimSpace(string(out))
	return c.prefix, nil
}
