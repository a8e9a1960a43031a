package execx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// Command describes one external process invocation.
type Command struct {
	// Name is the binary to run, resolved through PATH.
	Name string

	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env is the complete environment of the child process, in
	// KEY=VALUE form. A nil Env inherits the parent environment.
	Env []string
}

// String renders the command the way a user would type it.
func (c Command) String() string {
	return shellquote.Join(append([]string{c.Name}, c.Args...)...)
}

// Result is the structured outcome of a Command.
type Result struct {
	// Code is the process exit code. Failures to start the process and
	// context cancellation are reported as 1 and 130 respectively.
	Code int
	Err  error
}

// OK reports whether the command exited with status 0.
func (r Result) OK() bool {
	return r.Code == 0 && r.Err == nil
}

// Check returns nil for a successful result, otherwise a *model.CLIError
// that carries the tool's own exit code so the process exits with it.
func (r Result) Check(what string) error {
	if r.OK() {
		return nil
	}
	code := model.ExitCode(r.Code)
	if code == model.ExitSuccess {
		code = model.ExitGeneralError
	}
	err := r.Err
	if err == nil {
		err = fmt.Errorf("exit status %d", r.Code)
	}
	return model.WrapCLIError(code, what, err)
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) Result
}

// HostRunner runs commands on the host, wired to the terminal.
type HostRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// DryRun prints "+ <command>" to Stderr instead of running it.
	DryRun bool

	Logger *slog.Logger
}

// NewHostRunner returns a HostRunner attached to the process's standard
// streams.
func NewHostRunner(dryRun bool, logger *slog.Logger) *HostRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &HostRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		DryRun: dryRun,
		Logger: logger,
	}
}

// Run executes cmd and waits for it to finish.
func (r *HostRunner) Run(ctx context.Context, cmd Command) Result {
	if r.DryRun {
		fmt.Fprintln(r.Stderr, "+ "+cmd.String())
		return Result{}
	}
	r.Logger.Debug("running command", "cmd", cmd.String(), "dir", cmd.Dir)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.Stdin = r.Stdin

	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	err := c.Run()
	return Result{Code: exitCode(ctx, err), Err: err}
}

// exitCode maps the error returned by exec.Cmd.Run to a process exit code.
func exitCode(ctx context.Context, err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) && ee.ExitCode() >= 0 {
		return ee.ExitCode()
	}
	if ctx.Err() != nil {
		return 130
	}
	return 1
}

// LookPath resolves a binary on PATH.
type LookPath func(file string) (string, error)

