package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// NewEnvCommand creates "env".
func NewEnvCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "env [KEY=VALUE...]",
		Short: "Show the environment commands run with",
		Long: `Print every variable passed to docker, s2i and docker-compose, with
where its value came from: process, .env, argument, override, default or
detected.

Examples:
  vcr-manage env
  vcr-manage env THEME=ongov --yaml`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, model.CommandEnv, args, setup{skipS2I: true}, runEnv)
		},
	}
}

func runEnv(_ context.Context, inv *invocation) error {
	entries := inv.env.Entries()
	a := inv.app

	switch {
	case a.opts.JSON:
		return printJSON(a.Stdout, map[string]any{"environment": entries})
	case a.opts.YAML:
		return printYAML(a.Stdout, map[string]any{"environment": entries})
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Name, e.Value, string(e.Source)})
	}
	printTable(a.Stdout, []string{"Name", "Value", "Source"}, rows)
	return nil
}
