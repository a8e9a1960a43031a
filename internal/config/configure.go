package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// FallbackDockerHost is used when the Docker host address cannot be
// detected.
const FallbackDockerHost = "localhost"

// Options controls Configure.
type Options struct {
	// Environ is the inherited process environment. Nil means os.Environ().
	Environ []string

	// ProjectDir is where the .env file is looked up.
	ProjectDir string

	// Assignments are the KEY=VALUE tokens from the command line.
	Assignments []Assignment

	// Overrides are command-specific values (test-api). They beat
	// defaults, the process environment and .env, but not the command line.
	Overrides []Assignment

	// Command is checked with RequireSeed before the Docker host is
	// detected. Empty skips the check.
	Command model.Command

	// DetectDockerHost returns the Docker host address. It is only called
	// when DOCKERHOST is unset or empty.
	DetectDockerHost func(ctx context.Context) (string, error)

	Logger *slog.Logger
}

// Configure resolves the environment for one command invocation.
//
// Precedence, lowest first: process environment, .env, overrides,
// command-line assignments. The defaults table then fills the gaps.
// A seed value from any layer also sets INDY_WALLET_SEED at that layer.
func Configure(ctx context.Context, opts Options) (*Env, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	env := EnvFromEnviron(environ)
	if seed, ok := env.Lookup(SeedKey); ok {
		env.Set(VarWalletSeed, seed, SourceProcess)
	}

	dotenv, err := ReadDotEnv(filepath.Join(opts.ProjectDir, DotEnvFile))
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to load .env", err)
	}
	for _, a := range dotenv {
		setAliased(env, a, SourceDotEnv)
	}
	logger.Debug("loaded .env", "dir", opts.ProjectDir, "count", len(dotenv))

	argNames := make(map[string]bool, len(opts.Assignments))
	for _, a := range opts.Assignments {
		argNames[a.Name] = true
		if a.Name == SeedKey {
			argNames[VarWalletSeed] = true
		}
	}
	for _, a := range opts.Overrides {
		if argNames[a.Name] {
			continue
		}
		env.Set(a.Name, a.Value, SourceOverride)
	}
	for _, a := range opts.Assignments {
		setAliased(env, a, SourceArgument)
	}

	if opts.Command != "" {
		if err := RequireSeed(opts.Command, env); err != nil {
			return nil, err
		}
	}

	if v, _ := env.Lookup(DockerHostVar); v == "" {
		host := FallbackDockerHost
		if opts.DetectDockerHost != nil {
			detected, err := opts.DetectDockerHost(ctx)
			if err != nil || detected == "" {
				logger.Warn("could not detect the Docker host address, using fallback",
					"fallback", FallbackDockerHost, "err", err)
			} else {
				host = detected
			}
		}
		env.Set(DockerHostVar, host, SourceDetected)
	}

	ApplyDefaults(env, Defaults())
	return env, nil
}

// setAliased sets a and, for a seed assignment, INDY_WALLET_SEED.
func setAliased(env *Env, a Assignment, src Source) {
	env.Set(a.Name, a.Value, src)
	if a.Name == SeedKey {
		env.Set(VarWalletSeed, a.Value, src)
	}
}

// ApplyDefaults walks table in order and fills env according to each
// row's Mode.
func ApplyDefaults(env *Env, table []Default) {
	for _, d := range table {
		current, set := env.Lookup(d.Name)
		switch d.Mode {
		case IfUnsetOrEmpty:
			if set && current != "" {
				continue
			}
		case IfUnset:
			if set {
				continue
			}
		case Fixed:
			switch env.Source(d.Name) {
			case SourceDotEnv, SourceArgument, SourceOverride:
				continue
			}
		}

		value := d.Value
		if d.Derive != nil {
			value = d.Derive(env)
		} else {
			value = env.Expand(value)
		}
		env.Set(d.Name, value, SourceDefault)
	}
}

// RequireSeed fails when cmd needs a wallet seed and none was resolved.
func RequireSeed(cmd model.Command, env *Env) error {
	if !cmd.RequiresSeed() {
		return nil
	}
	if env.Get(VarWalletSeed) != "" {
		return nil
	}
	return model.NewCLIError(model.ExitGeneralError,
		fmt.Sprintf("%s requires a wallet seed; pass seed=<32 character seed> or set %s", cmd, VarWalletSeed))
}
