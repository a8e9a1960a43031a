package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vcr-manage/internal/compose"
	"github.com/shinji-kodama/vcr-manage/internal/config"
	"github.com/shinji-kodama/vcr-manage/internal/docker"
	"github.com/shinji-kodama/vcr-manage/internal/execx"
	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// s2iExeVar names an alternative s2i binary.
const s2iExeVar = "S2I_EXE"

// invocation is everything a command handler needs once the arguments
// and environment have been resolved.
type invocation struct {
	app *App

	command model.Command

	// raw holds the positional arguments with vcr-manage's own options
	// removed, in their original order.
	raw  []string
	args config.Args

	dir      string
	env      *config.Env
	settings config.Settings
	project  config.Project
	s2i      string

	logger  *slog.Logger
	runner  execx.Runner
	compose *compose.Project

	dockerClient *docker.Client
}

// setup controls prepare.
type setup struct {
	// skipS2I skips the s2i lookup for commands that never build.
	skipS2I bool

	// overrides are command-specific environment values.
	overrides []config.Assignment
}

// prepare resolves the environment for a command. It performs, in
// order: argument classification, the s2i lookup, .env loading, the
// seed check, and defaulting. Nothing external runs before it returns.
func (a *App) prepare(ctx context.Context, command model.Command, raw []string, s setup) (*invocation, error) {
	logger := newLogger(a.Stderr, a.opts.Verbose)

	dir := a.opts.ProjectDir
	if dir == "" {
		dir = a.WorkDir
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}

	inv := &invocation{
		app:     a,
		command: command,
		raw:     raw,
		args:    config.ClassifyArgs(raw),
		dir:     dir,
		logger:  logger,
	}

	if !s.skipS2I {
		if inv.s2i, err = a.lookupS2I(); err != nil {
			return nil, err
		}
	}

	inv.env, err = config.Configure(ctx, config.Options{
		Environ:          a.Environ,
		ProjectDir:       dir,
		Assignments:      inv.args.Assignments,
		Overrides:        s.overrides,
		Command:          command,
		DetectDockerHost: inv.detectDockerHost,
		Logger:           logger,
	})
	if err != nil {
		inv.close()
		return nil, err
	}

	inv.project, err = config.LoadProject(dir)
	if err != nil {
		inv.close()
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to load project settings", err)
	}

	inv.settings = config.SettingsFrom(inv.env)
	inv.runner = a.NewRunner(a.opts.DryRun, logger)
	inv.compose = &compose.Project{
		Binary: compose.DetectBinary(a.LookPath),
		Dir:    dir,
		File:   inv.project.ComposeFile,
		Env:    inv.env.Environ(),
		Runner: inv.runner,
	}
	return inv, nil
}

func (a *App) lookupS2I() (string, error) {
	name := "s2i"
	if v := config.EnvFromEnviron(a.Environ).Get(s2iExeVar); v != "" {
		name = v
	}
	if _, err := a.LookPath(name); err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf(
			"%s not found on PATH; download the latest s2i release from "+
				"https://github.com/openshift/source-to-image/releases, or set %s to its location", name, s2iExeVar), err)
	}
	return name, nil
}

// docker returns the Engine API client, connecting on first use.
func (inv *invocation) docker() (*docker.Client, error) {
	if inv.dockerClient != nil {
		return inv.dockerClient, nil
	}
	c, err := inv.app.NewDocker()
	if err != nil {
		return nil, err
	}
	inv.dockerClient = c
	return c, nil
}

func (inv *invocation) detectDockerHost(ctx context.Context) (string, error) {
	c, err := inv.docker()
	if err != nil {
		return "", err
	}
	return c.BridgeGateway(ctx)
}

func (inv *invocation) close() {
	if inv.dockerClient != nil {
		_ = inv.dockerClient.Close()
		inv.dockerClient = nil
	}
}

// containers returns the requested containers, or the project defaults.
// Names missing from the compose file are reported but still passed on.
func (inv *invocation) containers() []string {
	names := inv.args.Containers(inv.project.DefaultContainers)
	inv.warnUnknown(names)
	return names
}

func (inv *invocation) warnUnknown(names []string) {
	services := make(map[string]bool)
	var read []string
	for _, rel := range inv.project.ComposeFiles(inv.env) {
		path := inv.compose.Path(rel)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		f, err := compose.ReadFile(path)
		if err != nil {
			inv.logger.Debug("skipping service name check", "err", err)
			return
		}
		for _, s := range f.ServiceNames() {
			services[s] = true
		}
		read = append(read, path)
	}
	if len(read) == 0 {
		return
	}
	for _, name := range names {
		if !services[name] {
			inv.logger.Warn("container is not a service of the compose files", "container", name, "files", read)
		}
	}
}

// run resolves a command and calls fn with it. --help short-circuits to
// the command's help text.
func (a *App) run(cmd *cobra.Command, command model.Command, args []string, s setup, fn func(ctx context.Context, inv *invocation) error) error {
	if a.opts.Help {
		return cmd.Help()
	}
	ctx := cmd.Context()
	inv, err := a.prepare(ctx, command, args, s)
	if err != nil {
		return err
	}
	defer inv.close()
	return fn(ctx, inv)
}

// hasFlag removes flag from flags and reports whether it was present.
func hasFlag(flags []string, flag string) ([]string, bool) {
	out := make([]string, 0, len(flags))
	found := false
	for _, f := range flags {
		if f == flag {
			found = true
			continue
		}
		out = append(out, f)
	}
	return out, found
}
