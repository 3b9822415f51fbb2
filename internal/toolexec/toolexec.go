// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolexec runs external command-line tools and reports their exit
// status and captured output. Tools are black boxes: exit code 0 is success,
// anything else is failure, and output is only parsed by callers that need it.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// ErrNotFound is returned by Detect when none of the candidate tools is installed.
var ErrNotFound = errors.New("no suitable tool found")

// Result is the outcome of one tool invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// ExitError reports a tool that ran but exited non-zero.
type ExitError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Tool is an external program that can be checked for and invoked.
type Tool interface {
	// Name returns the binary name (e.g. "unrar").
	Name() string

	// Available reports whether the binary exists on PATH.
	Available() bool

	// Run invokes the binary with args and blocks until it exits. A non-zero
	// exit yields an *ExitError alongside the populated Result.
	Run(ctx context.Context, args ...string) (Result, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run returns the exit code of the process. The error is non-nil only when
// the process could not be started or waited for.
func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return exitErr.ExitCode(), nil
	}
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}
	return -1, err
}

var defaultExec executor = &osExecutor{}

// Option configures a tool.
type Option func(*tool)

// WithStderr tees the tool's stderr to w while it runs. Download tools use
// this to show their progress output.
func WithStderr(w io.Writer) Option {
	return func(t *tool) { t.stderr = w }
}

// WithLogger sets the logger used for invocation traces.
func WithLogger(l *slog.Logger) Option {
	return func(t *tool) { t.logger = l }
}

// tool implements Tool for a single binary.
type tool struct {
	bin    string
	stderr io.Writer
	logger *slog.Logger
	exec   executor
}

// New returns a Tool for the named binary.
func New(bin string, opts ...Option) Tool {
	return newTool(defaultExec, bin, opts...)
}

func newTool(exec executor, bin string, opts ...Option) *tool {
	t := &tool{bin: bin, exec: exec, logger: slog.Default()}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *tool) Name() string { return t.bin }

func (t *tool) Available() bool {
	_, err := t.exec.LookPath(t.bin)
	return err == nil
}

func (t *tool) Run(ctx context.Context, args ...string) (Result, error) {
	t.logger.Debug("executing tool", "tool", t.bin, "args", args)

	var stdout, stderr bytes.Buffer
	var errOut io.Writer = &stderr
	if t.stderr != nil {
		errOut = io.MultiWriter(&stderr, t.stderr)
	}

	code, err := t.exec.Run(ctx, t.bin, args, &stdout, errOut)
	res := Result{ExitCode: code, Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		return res, fmt.Errorf("running %s: %w", t.bin, err)
	}
	if code != 0 {
		t.logger.Debug("tool failed", "tool", t.bin, "exit_code", code)
		return res, &ExitError{Tool: t.bin, ExitCode: code, Stderr: stderr.String()}
	}
	return res, nil
}

// Detect returns the first available tool, in the order given.
func Detect(candidates ...Tool) (Tool, error) {
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c.Available() {
			return c, nil
		}
		names = append(names, c.Name())
	}
	return nil, fmt.Errorf("%w: none of %s found on PATH", ErrNotFound, strings.Join(names, ", "))
}
