// Package cli implements the cobra-based commands of vcr-manage.
//
// Each command group lives in its own file. This file defines the root
// command, the dependencies every command runs with, and the mapping from
// errors to process exit codes.
//
// All commands set DisableFlagParsing: anything vcr-manage does not
// recognise itself is forwarded to docker-compose untouched.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vcr-manage/internal/config"
	"github.com/shinji-kodama/vcr-manage/internal/docker"
	"github.com/shinji-kodama/vcr-manage/internal/execx"
	"github.com/shinji-kodama/vcr-manage/internal/ledger"
	"github.com/shinji-kodama/vcr-manage/internal/model"
	"github.com/shinji-kodama/vcr-manage/internal/port"
)

// Build information, set via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// PortChecker fails when a host port cannot be published.
type PortChecker interface {
	Require(port int, variable string) error
}

// App holds the dependencies shared by every command. Tests replace
// them with fakes.
type App struct {
	Stdout io.Writer
	Stderr io.Writer

	// Environ is the inherited process environment.
	Environ []string

	// WorkDir is the project directory used when --project-dir is absent.
	WorkDir string

	LookPath  execx.LookPath
	NewRunner func(dryRun bool, logger *slog.Logger) execx.Runner
	NewDocker func() (*docker.Client, error)
	Ports     PortChecker

	HTTPClient *http.Client

	// opts are vcr-manage's own options for the current invocation.
	opts config.ToolOptions
}

// NewApp returns an App wired to the host.
func NewApp() *App {
	wd, _ := os.Getwd()
	return &App{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Environ:  os.Environ(),
		WorkDir:  wd,
		LookPath: exec.LookPath,
		NewRunner: func(dryRun bool, logger *slog.Logger) execx.Runner {
			return execx.NewHostRunner(dryRun, logger)
		},
		NewDocker:  docker.NewClient,
		Ports:      port.NewScanner(),
		HTTPClient: &http.Client{Timeout: ledger.DefaultTimeout},
	}
}

// NewRootCommand creates the root command and registers every
// subcommand on it.
func NewRootCommand(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "vcr-manage <command> [container...] [KEY=VALUE...] [-flag...]",
		Short: "Build and run the credential registry containers",
		Long: `vcr-manage builds the credential registry images with docker and s2i and
runs them with docker-compose.

KEY=VALUE arguments set environment variables for the invocation and
override both the .env file and the built-in defaults. Arguments starting
with "-" are forwarded to the underlying docker-compose command. Lifecycle
commands without container names act on the default container set.

Options accepted anywhere on the command line:
  --project-dir DIR   directory holding docker-compose.yml and .env
  --dry-run           print commands instead of running them
  --verbose           enable debug logging
  --json, --yaml      machine-readable output where supported

After shell, api and test-api, or after "--", every argument is passed on
unchanged; put vcr-manage's options before the command name there.

Examples:
  vcr-manage build
  vcr-manage build web THEME=ongov THEME_PATH=../themes/ongov
  vcr-manage up seed=my_seed_000000000000000000000000
  vcr-manage logs vcr-api
  vcr-manage registerdids seed=alice_000000000000000000000000 seed=bob_000000000000000000000000000
  vcr-manage test-api api.v2.tests`,

		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Version:            fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// Reached only when the first argument is not a known command.
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetOut(a.Stderr)
			_ = cmd.Usage()
			return model.NewCLIError(model.ExitGeneralError, fmt.Sprintf("unknown command %q", args[0]))
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	root.AddCommand(NewBuildCommand(a))
	root.AddCommand(NewTargetsCommand(a))
	root.AddCommand(NewUpCommand(a))
	root.AddCommand(NewRestartCommand(a))
	root.AddCommand(NewStopCommand(a))
	root.AddCommand(NewLogsCommand(a))
	root.AddCommand(NewStartDBCommand(a))
	root.AddCommand(NewStopDBCommand(a))
	root.AddCommand(NewDownCommand(a))
	root.AddCommand(NewWebDevCommand(a))
	root.AddCommand(NewShellCommand(a))
	root.AddCommand(NewAPICommand(a))
	root.AddCommand(NewTestAPICommand(a))
	root.AddCommand(NewRegisterDIDsCommand(a))
	root.AddCommand(NewEnvCommand(a))
	root.AddCommand(NewStatusCommand(a))

	return root
}

// Execute runs one vcr-manage invocation and returns its exit code.
//
// vcr-manage's own options are removed before cobra sees the arguments,
// so they may appear before the command name. The command name is
// matched case-insensitively.
func (a *App) Execute(ctx context.Context, args []string) int {
	opts, rest := config.ExtractToolOptions(args)
	a.opts = opts
	root := NewRootCommand(a)

	if len(rest) == 0 {
		if opts.Help {
			_ = root.Help()
			return int(model.ExitSuccess)
		}
		root.SetOut(a.Stderr)
		_ = root.Usage()
		return int(model.ExitGeneralError)
	}

	rest[0] = strings.ToLower(rest[0])
	root.SetArgs(rest)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return int(model.ExitSuccess)
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		a.printError(cliErr.Message, cliErr.Err)
		return int(cliErr.Code)
	}
	a.printError(err.Error(), nil)
	return int(model.ExitGeneralError)
}

// Execute runs vcr-manage with the process arguments and exits.
func Execute(ctx context.Context) {
	os.Exit(NewApp().Execute(ctx, os.Args[1:]))
}

// printError writes an error to stderr as text, or as JSON with --json.
func (a *App) printError(message string, underlying error) {
	if a.opts.JSON {
		errObj := map[string]any{"message": message}
		if underlying != nil {
			errObj["detail"] = underlying.Error()
		}
		data, _ := json.MarshalIndent(map[string]any{"error": errObj}, "", "  ")
		fmt.Fprintln(a.Stderr, string(data))
		return
	}
	if underlying != nil {
		fmt.Fprintf(a.Stderr, "Error: %s: %v\n", message, underlying)
		return
	}
	fmt.Fprintf(a.Stderr, "Error: %s\n", message)
}

// newLogger returns a text logger on w; verbose lowers the level to debug.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
