// Package compose builds and runs docker-compose invocations for the
// vcr compose project.
package compose

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/shinji-kodama/vcr-manage/internal/execx"
)

// Binary is the compose executable and the arguments that precede every
// compose sub-command.
type Binary struct {
	Name   string
	Prefix []string
}

var (
	// Standalone is the docker-compose v1/v2 standalone binary.
	Standalone = Binary{Name: "docker-compose"}

	// Plugin is the "docker compose" CLI plugin.
	Plugin = Binary{Name: "docker", Prefix: []string{"compose"}}
)

// DetectBinary prefers docker-compose on PATH and falls back to the
// docker compose plugin.
func DetectBinary(lookPath execx.LookPath) Binary {
	if _, err := lookPath(Standalone.Name); err == nil {
		return Standalone
	}
	return Plugin
}

// Project runs compose sub-commands against one compose file.
type Project struct {
	Binary Binary

	// Dir is the project directory. The compose file and relative paths
	// in it are resolved against it.
	Dir string

	// File is the compose file, relative to Dir.
	File string

	// Env is the full environment passed to every invocation.
	Env []string

	Runner execx.Runner
}

// Command returns the execx.Command for a compose sub-command.
func (p *Project) Command(args ...string) execx.Command {
	full := make([]string, 0, len(p.Binary.Prefix)+2+len(args))
	full = append(full, p.Binary.Prefix...)
	if p.File != "" {
		full = append(full, "-f", p.File)
	}
	full = append(full, args...)
	return execx.Command{
		Name: p.Binary.Name,
		Args: full,
		Dir:  p.Dir,
		Env:  p.Env,
	}
}

// Run executes a compose sub-command.
func (p *Project) Run(ctx context.Context, args ...string) execx.Result {
	return p.Runner.Run(ctx, p.Command(args...))
}

// UpOptions controls Up.
type UpOptions struct {
	// Recreate adds --force-recreate.
	Recreate bool

	// Flags are forwarded verbatim after the fixed options.
	Flags []string

	// Scale pins a service's replica count. Ignored when Service is empty.
	ScaleService  string
	ScaleReplicas int

	Containers []string
}

// UpArgs returns the arguments of a detached "up".
func UpArgs(opts UpOptions) []string {
	args := []string{"up", "-d"}
	if opts.Recreate {
		args = append(args, "--force-recreate")
	}
	args = append(args, opts.Flags...)
	if opts.ScaleService != "" {
		args = append(args, "--scale", opts.ScaleService+"="+strconv.Itoa(opts.ScaleReplicas))
	}
	return append(args, opts.Containers...)
}

// Up starts containers in the background.
func (p *Project) Up(ctx context.Context, opts UpOptions) execx.Result {
	return p.Run(ctx, UpArgs(opts)...)
}

// Logs follows the logs of containers until ctx is cancelled.
func (p *Project) Logs(ctx context.Context, flags, containers []string) execx.Result {
	args := append([]string{"logs", "-f"}, flags...)
	return p.Run(ctx, append(args, containers...)...)
}

// Stop stops containers without removing them.
func (p *Project) Stop(ctx context.Context, flags, containers []string) execx.Result {
	args := append([]string{"stop"}, flags...)
	return p.Run(ctx, append(args, containers...)...)
}

// Remove force-removes stopped containers.
func (p *Project) Remove(ctx context.Context, flags, containers []string) execx.Result {
	args := append([]string{"rm", "-f"}, flags...)
	return p.Run(ctx, append(args, containers...)...)
}

// RunOptions controls RunService.
type RunOptions struct {
	Service string

	// NoDeps adds --no-deps.
	NoDeps bool

	// Command replaces the service's default command.
	Command []string
}

// RunArgs returns the arguments of a one-off "run --rm".
func RunArgs(opts RunOptions) []string {
	args := []string{"run", "--rm"}
	if opts.NoDeps {
		args = append(args, "--no-deps")
	}
	args = append(args, opts.Service)
	return append(args, opts.Command...)
}

// RunService runs a one-off container and removes it afterwards.
func (p *Project) RunService(ctx context.Context, opts RunOptions) execx.Result {
	return p.Run(ctx, RunArgs(opts)...)
}

// Path resolves a path relative to the project directory.
func (p *Project) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Dir, rel)
}
