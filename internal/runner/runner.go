// Package runner executes diagnostic commands with a bounded runtime and
// captured output. Collection commands are shell strings declared by
// plugins, so they are run through the shell the same way a support
// engineer would run them.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

const bashFilePath = "/bin/bash"

// DefaultTimeout bounds a single collection command.
const DefaultTimeout = 300 * time.Second

// Output holds the captured result of one command execution.
type Output struct {
	Stdout string
	Stderr string
	// Status is the command exit status, or -1 when the command did not
	// run to completion.
	Status int
}

// Runner runs shell commands with a per-command timeout.
type Runner struct {
	Timeout time.Duration
}

// New returns a Runner with the given per-command timeout. A non-positive
// timeout falls back to DefaultTimeout.
func New(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{Timeout: timeout}
}

// Run executes the given command with "bash -c" and captures its output.
// A non-zero exit status is not reported as an error; err is non-nil only
// when the command could not be run to completion, e.g. a missing shell,
// an expired timeout or a canceled context.
func (r *Runner) Run(ctx context.Context, command string) (Output, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, bashFilePath, "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	output := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		if runCtx.Err() != nil {
			output.Status = -1
			return output, fmt.Errorf("command %q did not finish: %w", command, runCtx.Err())
		}
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			output.Status = exitError.ExitCode()
			slog.Debug("command exited with non-zero status",
				"command", command, "status", output.Status)
			return output, nil
		}
		output.Status = -1
		return output, fmt.Errorf("failed to run command %q: %w", command, err)
	}

	return output, nil
}
