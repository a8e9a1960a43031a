package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// NewDownCommand creates "down" and its alias "rm".
func NewDownCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "down [-flag...]",
		Aliases: []string{string(model.CommandRm)},
		Short:   "Remove the containers, volumes and build cache of the project",
		Long: `Stop and remove every container of the compose project, delete the
named volumes whose names start with "<COMPOSE_PROJECT_NAME>_", and remove
the local build cache directory.

All application data is lost.`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, model.Command(cmd.CalledAs()), args, setup{}, runDown)
		},
	}
}

func runDown(ctx context.Context, inv *invocation) error {
	if err := inv.compose.Stop(ctx, inv.args.Flags, nil).Check("stopping containers"); err != nil {
		return err
	}
	if err := inv.compose.Remove(ctx, nil, nil).Check("removing containers"); err != nil {
		return err
	}
	if err := removeProjectVolumes(ctx, inv); err != nil {
		return err
	}
	return removeBuildCache(inv)
}

func removeProjectVolumes(ctx context.Context, inv *invocation) error {
	c, err := inv.docker()
	if err != nil {
		return err
	}
	names, err := c.ProjectVolumes(ctx, inv.settings.VolumePrefix())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		inv.logger.Debug("no project volumes to remove", "prefix", inv.settings.VolumePrefix())
		return nil
	}

	if inv.app.opts.DryRun {
		for _, name := range names {
			fmt.Fprintln(inv.app.Stderr, "+ docker volume rm "+name)
		}
		return nil
	}

	inv.logger.Info("removing volumes", "volumes", names)
	if err := c.RemoveVolumes(ctx, names); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to remove project volumes", err)
	}
	return nil
}

func removeBuildCache(inv *invocation) error {
	dir := inv.compose.Path(inv.project.BuildCacheDir)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	if inv.app.opts.DryRun {
		fmt.Fprintln(inv.app.Stderr, "+ rm -rf "+dir)
		return nil
	}

	inv.logger.Info("removing build cache", "dir", dir)
	if err := os.RemoveAll(dir); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to remove build cache", err)
	}
	return nil
}
