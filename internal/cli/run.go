package cli

import (
	"context"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vcr-manage/internal/compose"
	"github.com/shinji-kodama/vcr-manage/internal/config"
	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// defaultShell is run by "shell" when no command is given.
const defaultShell = "/bin/bash"

// testAPIOverrides run the API test suite against SQLite, without the
// ledger or Solr.
var testAPIOverrides = []config.Assignment{
	{Name: "DATABASE_ENGINE", Value: "sqlite"},
	{Name: "DJANGO_DEBUG", Value: "True"},
	{Name: "INDY_DISABLED", Value: "true"},
	{Name: "SOLR_SERVICE_NAME", Value: ""},
}

// NewShellCommand creates "shell".
func NewShellCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell [service] [command...]",
		Short: "Open an interactive session in a one-off container",
		Long: `Run a command in a new container of a service and remove the container
afterwards. The service defaults to vcr-api and the command to /bin/bash.

Examples:
  vcr-manage shell
  vcr-manage shell vcr-db psql`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, model.CommandShell, args, setup{}, runShell)
		},
	}
}

func runShell(ctx context.Context, inv *invocation) error {
	rest := config.Passthrough(inv.raw)
	service := inv.project.APIService
	if len(rest) > 0 {
		service, rest = rest[0], rest[1:]
	}
	if len(rest) == 0 {
		rest = []string{defaultShell}
	}
	inv.warnUnknown([]string{service})

	res := inv.compose.RunService(ctx, compose.RunOptions{Service: service, Command: rest})
	return res.Check("running shell in " + service)
}

// NewAPICommand creates "api".
func NewAPICommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "api [args...]",
		Short: "Run a Django management command in the API container",
		Long: `Run "python manage.py <args>" in a one-off API container.

Examples:
  vcr-manage api migrate
  vcr-manage api createsuperuser`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, model.CommandAPI, args, setup{}, func(ctx context.Context, inv *invocation) error {
				command := append([]string{"python", "manage.py"}, config.Passthrough(inv.raw)...)
				res := inv.compose.RunService(ctx, compose.RunOptions{Service: inv.project.APIService, Command: command})
				return res.Check("running manage.py")
			})
		},
	}
}

// NewTestAPICommand creates "test-api".
func NewTestAPICommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "test-api [test label...]",
		Short: "Rebuild the API image and run its test suite",
		Long: `Rebuild the API image, then run the Django test suite under coverage in
a one-off container without dependencies. The suite runs against SQLite
with the ledger and Solr disabled; KEY=VALUE arguments still win.

A failed image build and a failed test run both exit with the failing
tool's status; the error message says which stage failed.

Examples:
  vcr-manage test-api
  vcr-manage test-api api.v2.tests.test_serializers`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, model.CommandTestAPI, args, setup{overrides: testAPIOverrides}, runTestAPI)
		},
	}
}

func runTestAPI(ctx context.Context, inv *invocation) error {
	if err := inv.builder().Build(ctx, model.TargetAPI); err != nil {
		return stageError("building api image", err)
	}

	script := "coverage run manage.py test"
	if labels := config.Passthrough(inv.raw); len(labels) > 0 {
		script += " " + shellquote.Join(labels...)
	}
	script += " && coverage report -m"

	res := inv.compose.RunService(ctx, compose.RunOptions{
		Service: inv.project.APIService,
		NoDeps:  true,
		Command: []string{"bash", "-c", script},
	})
	return res.Check("running api tests")
}

// stageError relabels a CLIError with the stage that failed, keeping its
// exit code.
func stageError(stage string, err error) error {
	if cliErr, ok := err.(*model.CLIError); ok {
		return model.WrapCLIError(cliErr.Code, stage, cliErr)
	}
	return model.WrapCLIError(model.ExitGeneralError, stage, err)
}
