package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/vcr-manage/internal/ledger"
	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// NewRegisterDIDsCommand creates "registerdids".
func NewRegisterDIDsCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "registerdids seed=<seed> [seed=<seed>...]",
		Short: "Register DIDs for wallet seeds with the ledger",
		Long: `POST each seed to the ledger's /register endpoint, one request per seed.
Without seed= arguments the resolved INDY_WALLET_SEED is registered.

When LEDGER_URL is the default ledger on the Docker host, the request goes
to localhost instead. Every seed is attempted; the command fails when any
registration failed.

Examples:
  vcr-manage registerdids seed=my_seed_000000000000000000000000
  vcr-manage registerdids seed=a_seed_0000000000000000000000000 seed=b_seed_0000000000000000000000000`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, model.CommandRegisterDIDs, args, setup{}, runRegisterDIDs)
		},
	}
}

func runRegisterDIDs(ctx context.Context, inv *invocation) error {
	seeds := inv.args.Seeds
	if len(seeds) == 0 {
		seeds = []string{inv.settings.WalletSeed}
	}

	url := ledger.RegisterURL(inv.settings.LedgerURL, inv.settings.DockerHost)
	if inv.app.opts.DryRun {
		for _, seed := range seeds {
			fmt.Fprintf(inv.app.Stderr, "+ POST %s %s\n", url, ledger.Body(seed))
		}
		return nil
	}

	client := ledger.NewClient(url)
	if inv.app.HTTPClient != nil {
		client.HTTPClient = inv.app.HTTPClient
	}
	inv.logger.Debug("registering DIDs", "url", url, "count", len(seeds))

	regs := client.Register(ctx, seeds)
	if err := printRegistrations(inv.app, regs); err != nil {
		return err
	}

	if failed := ledger.Failed(regs); len(failed) > 0 {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("%d of %d DID registrations failed", len(failed), len(regs)))
	}
	return nil
}

// registrationJSON is one entry of "registerdids --json".
type registrationJSON struct {
	Seed   string `json:"seed"`
	Status int    `json:"status,omitempty"`
	DID    string `json:"did,omitempty"`
	Verkey string `json:"verkey,omitempty"`
	Error  string `json:"error,omitempty"`
}

func printRegistrations(a *App, regs []ledger.Registration) error {
	out := make([]registrationJSON, 0, len(regs))
	for _, r := range regs {
		entry := registrationJSON{Seed: r.Seed, Status: r.StatusCode, DID: r.DID, Verkey: r.Verkey}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		out = append(out, entry)
	}

	switch {
	case a.opts.JSON:
		return printJSON(a.Stdout, map[string]any{"registrations": out})
	case a.opts.YAML:
		return printYAML(a.Stdout, map[string]any{"registrations": out})
	}

	rows := make([][]string, 0, len(out))
	for _, r := range out {
		status := ""
		if r.Status != 0 {
			status = strconv.Itoa(r.Status)
		}
		result := "ok"
		if r.Error != "" {
			result = r.Error
		}
		rows = append(rows, []string{r.Seed, status, r.DID, result})
	}
	printTable(a.Stdout, []string{"Seed", "Status", "DID", "Result"}, rows)
	return nil
}
