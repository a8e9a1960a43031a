package cli

import (
	"context"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vcr-manage/internal/build"
	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// NewBuildCommand creates "build".
func NewBuildCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "build [target] [KEY=VALUE...]",
		Short: "Build images",
		Long: `Build the images of one target, or of every target when none is given.

Targets: web, solr, db, schema-spy, api, agent, echo-app. A "vcr-" prefix
is accepted, so "vcr-api" is the same as "api". echo-app is only built
when named. Run "vcr-manage targets" to see the images each produces.

The web build copies THEME_PATH into the client's theme directory as
THEME for the duration of the build.

Examples:
  vcr-manage build
  vcr-manage build vcr-api
  vcr-manage build web THEME=ongov THEME_PATH=/src/themes/ongov`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, model.CommandBuild, args, setup{}, runBuild)
		},
	}
}

func runBuild(ctx context.Context, inv *invocation) error {
	name := ""
	if len(inv.args.Targets) > 0 {
		name = inv.args.Targets[0]
	}
	if len(inv.args.Targets) > 1 {
		inv.logger.Warn("only one build target is accepted; ignoring the rest", "ignored", inv.args.Targets[1:])
	}

	target, err := build.ParseTarget(name)
	if err != nil {
		return err
	}
	return inv.builder().Build(ctx, target)
}

func (inv *invocation) builder() *build.Builder {
	return &build.Builder{
		Runner:     inv.runner,
		ProjectDir: inv.dir,
		S2I:        inv.s2i,
		Env:        inv.env.Environ(),
		Settings:   inv.settings,
		DryRun:     inv.app.opts.DryRun,
		Logger:     inv.logger,
	}
}

// targetJSON is one entry of "targets --json".
type targetJSON struct {
	Name        string   `json:"name"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
	InAll       bool     `json:"inAll"`
}

// NewTargetsCommand creates "targets".
func NewTargetsCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:                "targets",
		Short:              "List build targets and the images they produce",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.opts.Help {
				return cmd.Help()
			}
			return printTargets(a)
		},
	}
}

func printTargets(a *App) error {
	inAll := make(map[model.BuildTarget]bool)
	for _, t := range model.AllTargets() {
		inAll[t] = true
	}

	routines := build.Routines()
	targets := make([]targetJSON, 0, len(routines))
	for t, r := range routines {
		targets = append(targets, targetJSON{
			Name:        t.String(),
			Images:      r.Images,
			Description: r.Description,
			InAll:       inAll[t],
		})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Name < targets[j].Name })

	switch {
	case a.opts.JSON:
		return printJSON(a.Stdout, map[string]any{"targets": targets})
	case a.opts.YAML:
		return printYAML(a.Stdout, map[string]any{"targets": targets})
	}

	rows := make([][]string, 0, len(targets))
	for _, t := range targets {
		all := ""
		if t.InAll {
			all = "yes"
		}
		rows = append(rows, []string{t.Name, strings.Join(t.Images, ", "), all, t.Description})
	}
	printTable(a.Stdout, []string{"Target", "Images", "In all", "Description"}, rows)
	return nil
}
