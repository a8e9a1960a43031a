package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// shortIDLength matches the container IDs printed by "docker ps".
const shortIDLength = 12

// NewStatusCommand creates "status".
func NewStatusCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status [KEY=VALUE...]",
		Short: "Show the containers of the compose project",
		Long: `List every container labelled with the compose project name
(COMPOSE_PROJECT_NAME, default "vcr"), including stopped ones.

Exits with status 3 when the Docker daemon cannot be reached.

Examples:
  vcr-manage status
  vcr-manage status --json`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, model.CommandStatus, args, setup{skipS2I: true}, runStatus)
		},
	}
}

func runStatus(ctx context.Context, inv *invocation) error {
	cli, err := inv.docker()
	if err != nil {
		return err
	}
	if err := cli.Ping(ctx); err != nil {
		return err
	}

	containers, err := cli.ListProjectContainers(ctx, inv.settings.ProjectName)
	if err != nil {
		return err
	}
	inv.logger.Debug("listed project containers", "project", inv.settings.ProjectName, "count", len(containers))

	return printStatus(inv.app, inv.settings.ProjectName, containers)
}

// statusJSON is the output of "status --json".
type statusJSON struct {
	Project    string                `json:"project"`
	Containers []model.ContainerInfo `json:"containers"`
}

func printStatus(a *App, project string, containers []model.ContainerInfo) error {
	if containers == nil {
		containers = []model.ContainerInfo{}
	}
	switch {
	case a.opts.JSON:
		return printJSON(a.Stdout, statusJSON{Project: project, Containers: containers})
	case a.opts.YAML:
		return printYAML(a.Stdout, statusJSON{Project: project, Containers: containers})
	}

	if len(containers) == 0 {
		_, err := fmt.Fprintf(a.Stdout, "No containers found for project %q.\n", project)
		return err
	}

	rows := make([][]string, 0, len(containers))
	for _, c := range containers {
		rows = append(rows, []string{c.ServiceName, c.ContainerName, ShortID(c.ContainerID), c.State, c.Status})
	}
	printTable(a.Stdout, []string{"Service", "Container", "ID", "State", "Status"}, rows)
	return nil
}

// ShortID truncates a container ID to the length docker prints.
func ShortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}
