// Package build maps build targets to the docker and s2i invocations
// that produce the project's images.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shinji-kodama/vcr-manage/internal/config"
	"github.com/shinji-kodama/vcr-manage/internal/execx"
	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// Builder runs build routines from the project directory.
type Builder struct {
	Runner execx.Runner

	// ProjectDir holds the compose file. Build contexts are relative to it.
	ProjectDir string

	// S2I is the resolved s2i binary.
	S2I string

	// Env is passed to every build tool.
	Env []string

	Settings config.Settings

	// DryRun skips the theme copy and only reports it.
	DryRun bool

	Logger *slog.Logger
}

// ParseTarget resolves a command-line target name. An unknown name is a
// CLIError pointing at --help.
func ParseTarget(name string) (model.BuildTarget, error) {
	target, err := model.ParseBuildTarget(name)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("unknown build target %q; run vcr-manage --help for the list of targets", name), err)
	}
	return target, nil
}

// Build runs the routine for target, or every routine of
// model.AllTargets in order for TargetAll. It stops at the first failure.
func (b *Builder) Build(ctx context.Context, target model.BuildTarget) error {
	if target == model.TargetAll {
		for _, t := range model.AllTargets() {
			if err := b.Build(ctx, t); err != nil {
				return err
			}
		}
		return nil
	}

	r, ok := Routines()[target]
	if !ok {
		return model.NewCLIError(model.ExitGeneralError, fmt.Sprintf("no build routine for %q", target))
	}

	b.logger().Info("building", "target", target.String(), "images", r.Images)
	return r.Run(ctx, b)
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

// path resolves rel against the project directory.
func (b *Builder) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(b.ProjectDir, rel)
}

func (b *Builder) docker(ctx context.Context, args ...string) error {
	cmd := execx.Command{Name: "docker", Args: args, Dir: b.ProjectDir, Env: b.Env}
	return b.Runner.Run(ctx, cmd).Check("docker build failed")
}

func (b *Builder) s2i(ctx context.Context, args ...string) error {
	cmd := execx.Command{Name: b.S2I, Args: args, Dir: b.ProjectDir, Env: b.Env}
	return b.Runner.Run(ctx, cmd).Check("s2i build failed")
}
