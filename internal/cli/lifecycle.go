package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vcr-manage/internal/compose"
	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// startDBWaitTimeout bounds startdb --wait.
const startDBWaitTimeout = 2 * time.Minute

// startDBPollInterval is how often startdb --wait checks container state.
var startDBPollInterval = 2 * time.Second

// NewUpCommand creates "up" and its alias "start".
func NewUpCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "up [container...] [-flag...] [KEY=VALUE...]",
		Aliases: []string{string(model.CommandStart)},
		Short:   "Recreate and start containers, then follow their logs",
		Long: `Recreate and start the given containers (default: all application
containers) in the background, with the worker scaled to its configured
replica count, then follow their logs until interrupted.

A wallet seed is required: pass seed=<seed> or set INDY_WALLET_SEED.

Examples:
  vcr-manage up seed=my_seed_000000000000000000000000
  vcr-manage start vcr-api vcr-db --no-build`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := model.Command(cmd.CalledAs())
			return a.run(cmd, command, args, setup{}, runUp)
		},
	}
}

// upOptions is the "up" used by up, start and restart.
func (inv *invocation) upOptions(containers []string) compose.UpOptions {
	return compose.UpOptions{
		Recreate:      true,
		Flags:         inv.args.Flags,
		ScaleService:  inv.project.WorkerService,
		ScaleReplicas: inv.project.WorkerReplicas,
		Containers:    containers,
	}
}

func runUp(ctx context.Context, inv *invocation) error {
	containers := inv.containers()
	if err := inv.compose.Up(ctx, inv.upOptions(containers)).Check("starting containers"); err != nil {
		return err
	}
	return followLogs(ctx, inv, containers)
}

// followLogs streams logs until the user interrupts. An interrupt is a
// normal way to stop following, not an error.
func followLogs(ctx context.Context, inv *invocation, containers []string) error {
	res := inv.compose.Logs(ctx, nil, containers)
	if ctx.Err() != nil {
		return nil
	}
	return res.Check("following logs")
}

// NewRestartCommand creates "restart".
func NewRestartCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restart [container...] [-flag...] [KEY=VALUE...]",
		Short: "Stop and start containers again",
		Long: `Stop the given containers (default: all application containers) and
start them again in the background. Logs are not followed.

A wallet seed is required, as for up.`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, model.CommandRestart, args, setup{}, runRestart)
		},
	}
}

func runRestart(ctx context.Context, inv *invocation) error {
	containers := inv.containers()
	if err := inv.compose.Stop(ctx, nil, containers).Check("stopping containers"); err != nil {
		return err
	}
	return inv.compose.Up(ctx, inv.upOptions(containers)).Check("starting containers")
}

// NewStopCommand creates "stop".
func NewStopCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:                "stop [container...] [-flag...]",
		Short:              "Stop containers without removing them",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, model.CommandStop, args, setup{}, func(ctx context.Context, inv *invocation) error {
				inv.warnUnknown(inv.args.Targets)
				return inv.compose.Stop(ctx, inv.args.Flags, inv.args.Targets).Check("stopping containers")
			})
		},
	}
}

// NewLogsCommand creates "logs".
func NewLogsCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:                "logs [container...] [-flag...]",
		Short:              "Follow container logs",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, model.CommandLogs, args, setup{}, func(ctx context.Context, inv *invocation) error {
				inv.warnUnknown(inv.args.Targets)
				res := inv.compose.Logs(ctx, inv.args.Flags, inv.args.Targets)
				if ctx.Err() != nil {
					return nil
				}
				return res.Check("following logs")
			})
		},
	}
}

// NewStartDBCommand creates "startdb".
func NewStartDBCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "startdb [--wait] [-flag...]",
		Short: "Start only the database containers",
		Long: `Start the wallet and application databases in the background.

With --wait, vcr-manage polls the Docker daemon until both containers
report running (up to two minutes).`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, model.CommandStartDB, args, setup{}, runStartDB)
		},
	}
}

func runStartDB(ctx context.Context, inv *invocation) error {
	flags, wait := hasFlag(inv.args.Flags, "--wait")
	dbs := inv.project.DatabaseContainers

	res := inv.compose.Up(ctx, compose.UpOptions{Flags: flags, Containers: dbs})
	if err := res.Check("starting databases"); err != nil {
		return err
	}
	if !wait || inv.app.opts.DryRun {
		return nil
	}

	c, err := inv.docker()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, startDBWaitTimeout)
	defer cancel()

	inv.logger.Info("waiting for databases", "containers", dbs)
	if err := c.WaitRunning(ctx, inv.settings.ProjectName, dbs, startDBPollInterval); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "databases did not start", err)
	}
	return nil
}

// NewStopDBCommand creates "stopdb".
func NewStopDBCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:                "stopdb [-flag...]",
		Short:              "Stop only the database containers",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, model.CommandStopDB, args, setup{}, func(ctx context.Context, inv *invocation) error {
				return inv.compose.Stop(ctx, inv.args.Flags, inv.project.DatabaseContainers).Check("stopping databases")
			})
		},
	}
}
