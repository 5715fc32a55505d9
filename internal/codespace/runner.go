package codespace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/cli/go-gh/v2"
)

// Runner executes gh with the given arguments.
type Runner interface {
	// Exec captures stdout and stderr.
	Exec(ctx context.Context, args ...string) (stdout, stderr []byte, err error)
	// ExecWithInput is Exec with stdin attached.
	ExecWithInput(ctx context.Context, stdin io.Reader, args ...string) (stdout, stderr []byte, err error)
	// Interactive connects gh to the terminal.
	Interactive(ctx context.Context, args ...string) error
}

// GHRunner runs the real gh binary.
type GHRunner struct{}

func (GHRunner) Exec(ctx context.Context, args ...string) ([]byte, []byte, error) {
	stdout, stderr, err := gh.ExecContext(ctx, args...)
	return stdout.Bytes(), stderr.Bytes(), err
}

// ExecWithInput shells out directly because go-gh has no stdin hook.
func (GHRunner) ExecWithInput(ctx context.Context, stdin io.Reader, args ...string) ([]byte, []byte, error) {
	path, err := exec.LookPath("gh")
	if err != nil {
		return nil, nil, ErrGHNotFound
	}
	c := exec.CommandContext(ctx, path, args...)
	c.Stdin = stdin
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("gh execution failed: %w", err)
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

func (GHRunner) Interactive(ctx context.Context, args ...string) error {
	return gh.ExecInteractive(ctx, args...)
}
