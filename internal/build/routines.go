package build

import (
	"context"

	"github.com/shinji-kodama/vcr-manage/internal/config"
	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// Build contexts and base images.
const (
	clientDir  = "../client"
	serverDir  = "../server"
	solrCores  = "../server/solr/cores"
	echoAppDir = "../echo-app"

	nodeBuilderImage   = "centos/nodejs-10-centos7"
	pythonBuilderImage = "bcgovimages/von-image:py36-1.11-1"

	solrBaseRepo   = "https://github.com/bcgov/openshift-solr.git"
	postgresRepo   = "https://github.com/sclorg/postgresql-container.git#:9.6"
	schemaSpyRepo  = "https://github.com/bcgov/SchemaSpy.git"
	webRuntimeFile = "../client/nginx-runtime/Dockerfile"
)

// Routine builds the images of one target.
type Routine struct {
	Target      model.BuildTarget
	Description string

	// Images are the tags the routine produces, in build order.
	Images []string

	Run func(ctx context.Context, b *Builder) error
}

// Routines returns the lookup table of build routines.
func Routines() map[model.BuildTarget]Routine {
	return map[model.BuildTarget]Routine{
		model.TargetWeb: {
			Target:      model.TargetWeb,
			Description: "Angular client (s2i), served by nginx",
			Images:      []string{"vcr-web-build", "vcr-web"},
			Run:         buildWeb,
		},
		model.TargetSolr: {
			Target:      model.TargetSolr,
			Description: "Solr base image plus the search cores",
			Images:      []string{"solr-base", "solr"},
			Run:         buildSolr,
		},
		model.TargetDB: {
			Target:      model.TargetDB,
			Description: "PostgreSQL 9.6",
			Images:      []string{"postgresql"},
			Run:         buildDB,
		},
		model.TargetSchemaSpy: {
			Target:      model.TargetSchemaSpy,
			Description: "SchemaSpy database documentation",
			Images:      []string{"schema-spy"},
			Run:         buildSchemaSpy,
		},
		model.TargetAPI: {
			Target:      model.TargetAPI,
			Description: "Django API server and worker (s2i)",
			Images:      []string{"vcr-api"},
			Run:         buildAPI,
		},
		model.TargetAgent: {
			Target:      model.TargetAgent,
			Description: "Credential agent",
			Images:      []string{"vcr-agent"},
			Run:         buildAgent,
		},
		model.TargetEchoApp: {
			Target:      model.TargetEchoApp,
			Description: "Echo test application (not part of all)",
			Images:      []string{"echo-app"},
			Run:         buildEchoApp,
		},
	}
}

func buildWeb(ctx context.Context, b *Builder) error {
	cleanup, err := b.installTheme()
	if err != nil {
		return err
	}
	defer cleanup()

	s := b.Settings
	err = b.s2i(ctx, "build",
		"-e", "NG_BASE_HREF="+s.WebBaseHref,
		"-e", config.VarTheme+"="+s.Theme,
		"-e", config.VarWebBaseHref+"="+s.WebBaseHref,
		clientDir, nodeBuilderImage, "vcr-web-build")
	if err != nil {
		return err
	}
	return b.docker(ctx, "build", "-t", "vcr-web", "-f", webRuntimeFile, clientDir)
}

func buildSolr(ctx context.Context, b *Builder) error {
	if err := b.docker(ctx, "build", solrBaseRepo, "-t", "solr-base"); err != nil {
		return err
	}
	return b.s2i(ctx, "build", solrCores, "solr-base", "solr")
}

func buildDB(ctx context.Context, b *Builder) error {
	return b.docker(ctx, "build", postgresRepo, "-t", "postgresql")
}

func buildSchemaSpy(ctx context.Context, b *Builder) error {
	return b.docker(ctx, "build", schemaSpyRepo, "-t", "schema-spy")
}

func buildAPI(ctx context.Context, b *Builder) error {
	return b.s2i(ctx, "build",
		"-e", config.VarEnablePTVSD+"="+b.Settings.EnablePTVSD,
		"-e", "UPGRADE_PIP_TO_LATEST=true",
		serverDir, pythonBuilderImage, "vcr-api")
}

func buildAgent(ctx context.Context, b *Builder) error {
	return b.docker(ctx, "build", "-t", "vcr-agent", "-f", "agent/Dockerfile", "..")
}

func buildEchoApp(ctx context.Context, b *Builder) error {
	return b.docker(ctx, "build", "-t", "echo-app", echoAppDir)
}
