package brew

import (
	"context"
	"fmt"
	"strings"
)

// Install runs brew install for the request. A formula may only be
// attempted once per Client; a repeat returns ErrAlreadyAttempted without
// invoking brew.
func (c *Client) Install(ctx context.Context, req InstallRequest) error {
	name := req.Formula.FullName
	if c.attempted[name] {
		return fmt.Errorf("%s: %w", name, ErrAlreadyAttempted)
	}
	c.attempted[name] = true

	cmd := c.command(ctx, req.Args()...)

	// Verbose installs stream; otherwise output is kept for the error.
	if req.Verbose || req.Debug {
		cmd.Stdout = c.stdout
		cmd.Stderr = c.stderr
		if err := cmd.Run(); err != nil {
			return &InstallError{Formula: name, Err: err}
		}
		return nil
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return &InstallError{Formula: name, Output: strings.TrimSpace(string(output)), Err: err}
	}
	return nil
}

// Link symlinks a formula's keg into the prefix.
func (c *Client) Link(ctx context.Context, f *Formula) error {
	output, err := c.command(ctx, "link", f.FullName).CombinedOutput()
	if err != nil {
		return fmt.Errorf("brew link %s failed: %w (output: %s)", f.FullName, err, string(output))
	}
	return nil
}

// Unlink removes a formula's symlinks from the prefix.
func (c *Client) Unlink(ctx context.Context, f *Formula) error {
	output, err := c.command(ctx, "unlink", f.FullName).CombinedOutput()
	if err != nil {
		return fmt.Errorf("brew unlink %s failed: %w (output: %s)", f.FullName, err, string(output))
	}
	return nil
}

// EnsureTap adds the user/repo tap if not already present.
func (c *Client) EnsureTap(ctx context.Context, user, repo string) error {
	tap := user + "/" + repo

	exists, err := c.TapExists(ctx, tap)
	if err != nil {
		return fmt.Errorf("failed to check if tap exists: %w", err)
	}
	if exists {
		return nil
	}

	output, err := c.command(ctx, "tap", tap).CombinedOutput()
	if err != nil {
		return fmt.Errorf("brew tap %s failed: %w (output: %s)", tap, err, string(output))
	}
	return nil
}

// TapExists checks if a tap is already added
func (c *Client) TapExists(ctx context.Context, tap string) (bool, error) {
	output, err := c.output(ctx, "tap")
	if err != nil {
		return false, err
	}

	for _, t := range parseLines(string(output)) {
		if strings.EqualFold(t, tap) {
			return true, nil
		}
	}
	return false, nil
}

// parseLines splits command output into trimmed, non-empty lines.
func parseLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
