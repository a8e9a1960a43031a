package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vcr-manage/internal/config"
	"github.com/shinji-kodama/vcr-manage/internal/execx"
	"github.com/shinji-kodama/vcr-manage/internal/model"
)

const (
	webDevImage         = "vcr-web-dev"
	webDevDockerfile    = "../client/Dockerfile.dev"
	webDevContainerPort = "4200"
)

// NewWebDevCommand creates "web-dev".
func NewWebDevCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "web-dev [--build] [KEY=VALUE...]",
		Short: "Run the Angular development server",
		Long: `Run the web client's development server in a container with the client
sources mounted, published on WEB_DEV_HTTP_PORT (default 4300).

--build rebuilds the vcr-web-dev image first. The port is checked before
the container starts; vcr-manage exits with status 4 if it is taken.`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, model.CommandWebDev, args, setup{}, runWebDev)
		},
	}
}

func runWebDev(ctx context.Context, inv *invocation) error {
	flags, rebuild := hasFlag(inv.args.Flags, "--build")
	client := inv.compose.Path("../client")

	if rebuild {
		res := inv.runner.Run(ctx, execx.Command{
			Name: "docker",
			Args: []string{"build", "-t", webDevImage, "-f", webDevDockerfile, "../client"},
			Dir:  inv.dir,
			Env:  inv.env.Environ(),
		})
		if err := res.Check("building " + webDevImage); err != nil {
			return err
		}
	}

	hostPort, err := inv.settings.WebDevPort()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid web-dev port", err)
	}
	if err := inv.app.Ports.Require(hostPort, config.VarWebDevHTTPPort); err != nil {
		return err
	}

	args := []string{"run", "--rm", "-it",
		"-p", inv.settings.WebDevHTTPPort + ":" + webDevContainerPort,
		"-v", client + ":/app",
		"-v", inv.compose.Path(inv.project.BuildCacheDir) + "/npm:/home/node/.npm",
		"-e", config.VarAPIURL + "=" + inv.settings.APIURL,
		"-e", config.VarTheme + "=" + inv.settings.Theme,
		"-e", config.VarWebBaseHref + "=" + inv.settings.WebBaseHref,
	}
	args = append(args, flags...)
	args = append(args, webDevImage)

	res := inv.runner.Run(ctx, execx.Command{Name: "docker", Args: args, Dir: inv.dir, Env: inv.env.Environ()})
	if ctx.Err() != nil {
		return nil
	}
	return res.Check("running " + webDevImage)
}
