package generator

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"syscall"
	"time"
)

const defaultWaitDelay = 5 * time.Second

// ProcessResult is the outcome of one external process invocation. Err is set
// only when the process could not be run to completion (start failure,
// cancellation); a non-zero exit is reported through ExitCode alone.
type ProcessResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Runner runs an external process synchronously.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ProcessResult
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, dir, name string, args ...string) ProcessResult

func (f RunnerFunc) Run(ctx context.Context, dir, name string, args ...string) ProcessResult {
	return f(ctx, dir, name, args...)
}

// ExecRunner runs processes with os/exec. On cancellation the child receives
// SIGTERM and is killed after WaitDelay.
type ExecRunner struct {
	WaitDelay time.Duration
	Env       []string
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{WaitDelay: defaultWaitDelay}
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ProcessResult {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = r.Env
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = r.WaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return newProcessResult(stdout.String(), stderr.String(), err, ctx.Err())
}

// newProcessResult classifies a finished run. A clean exit wins over a
// context that expired after the process returned.
func newProcessResult(stdout, stderr string, err, ctxErr error) ProcessResult {
	result := ProcessResult{
		Stdout: stdout,
		Stderr: stderr,
	}

	if err == nil {
		return result
	}

	if ctxErr != nil {
		result.ExitCode = -1
		result.Err = ctxErr

		return result
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()

		return result
	}

	result.ExitCode = -1
	result.Err = err

	return result
}
