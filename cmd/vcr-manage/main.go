// Package main is the entry point for vcr-manage.
//
// Build-time variables are injected via ldflags:
//
//	go build -ldflags "-X main.version=1.2.0 -X main.commit=$(git rev-parse --short HEAD)" ./cmd/vcr-manage
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/shinji-kodama/vcr-manage/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	// Interrupting "up" or "logs" stops following logs; the containers
	// keep running.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli.Execute(ctx)
}
