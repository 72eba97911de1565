//go:generate mockgen -destination=./mocks/command.go . Runner

// Package command runs external programs such as the bundled Python interpreter,
// tar, wsl and the kernel installer.
package command

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/glorpus-work/blnotebook/pkg/errors"
)

// Runner executes external commands.
type Runner interface {
	// Output runs the command and returns its standard output.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// Run runs the command with standard output and error attached to the runner's writers.
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// DryRun prints commands passed to Run instead of executing them.
	// Output is a read-only query and always executes.
	DryRun bool
	// Verbose logs every command before it runs.
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewExecRunner returns a runner attached to the process's stdout and stderr.
func NewExecRunner(dryRun, verbose bool) *ExecRunner {
	return &ExecRunner{DryRun: dryRun, Verbose: verbose, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if r.Verbose {
		logger.Debug("RUN: "+Format(name, args...), logger.Fields{"capture": true})
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return out, toolError(name, err, stderr.String())
	}
	return out, nil
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	line := Format(name, args...)
	if r.DryRun {
		logger.Info("(DRY-RUN) " + line)
		return nil
	}
	if r.Verbose {
		logger.Debug("RUN: " + line)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return toolError(name, err, "")
	}
	return nil
}

func toolError(name string, err error, stderr string) error {
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		msg := fmt.Sprintf("%s exited with status %d", name, exitErr.ExitCode())
		if s := strings.TrimSpace(stderr); s != "" {
			msg += ": " + s
		}
		return fmt.Errorf("%s: %w: %w", msg, errors.ErrExternalTool, exitErr)
	}
	return fmt.Errorf("%s could not be started: %w: %w", name, errors.ErrExternalTool, err)
}

// ExitCode extracts the exit status from an error returned by a Runner, or -1.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Format renders a command line for logging, quoting arguments that contain blanks.
func Format(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{name}, args...) {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
