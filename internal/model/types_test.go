package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseBuildTarget verifies name-to-target conversion, including the
// optional project prefix and case normalization.
func TestParseBuildTarget(t *testing.T) {
	tests := []struct {
		input    string
		expected BuildTarget
		hasError bool
	}{
		{"", TargetAll, false},
		{"web", TargetWeb, false},
		{"vcr-web", TargetWeb, false},
		{"api", TargetAPI, false},
		{"vcr-api", TargetAPI, false},
		{"VCR-API", TargetAPI, false},
		{"solr", TargetSolr, false},
		{"db", TargetDB, false},
		{"schema-spy", TargetSchemaSpy, false},
		{"agent", TargetAgent, false},
		{"echo-app", TargetEchoApp, false},
		{"vcr-", "", true},
		{"bogus", "", true},
		{"vcr-bogus", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseBuildTarget(tt.input)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAllTargets_ExcludesEchoApp(t *testing.T) {
	targets := AllTargets()
	assert.NotContains(t, targets, TargetEchoApp)
	assert.NotContains(t, targets, TargetAll)
	for _, target := range targets {
		assert.True(t, target.IsValid(), "target %q should be valid", target)
	}
}

func TestCommand_RequiresSeed(t *testing.T) {
	for _, c := range []Command{CommandUp, CommandStart, CommandRestart, CommandRegisterDIDs} {
		assert.True(t, c.RequiresSeed(), "%s should require a seed", c)
	}
	for _, c := range []Command{CommandBuild, CommandStop, CommandDown, CommandLogs, CommandStartDB, CommandTestAPI} {
		assert.False(t, c.RequiresSeed(), "%s should not require a seed", c)
	}
}

func TestCommand_PassesThrough(t *testing.T) {
	for _, c := range []Command{CommandShell, CommandAPI, CommandTestAPI} {
		assert.True(t, c.PassesThrough(), "%s should pass arguments through", c)
	}
	for _, c := range []Command{CommandUp, CommandBuild, CommandEnv, CommandRegisterDIDs} {
		assert.False(t, c.PassesThrough(), "%s should not pass arguments through", c)
	}
}

// TestDefaultContainers checks the fixed list used when lifecycle
// commands are given no container names.
func TestDefaultContainers(t *testing.T) {
	containers := DefaultContainers()
	require.Len(t, containers, 10)
	assert.Contains(t, containers, ServiceWorker)
	assert.Contains(t, containers, ServiceAPI)

	seen := make(map[string]bool)
	for _, c := range containers {
		assert.False(t, seen[c], "duplicate container %q", c)
		seen[c] = true
	}

	// Callers may mutate the returned slice.
	containers[0] = "changed"
	assert.Equal(t, ServiceWalletDB, DefaultContainers()[0])
}

func TestSortContainers(t *testing.T) {
	containers := []ContainerInfo{
		{ServiceName: "vcr-worker", ContainerName: "vcr-vcr-worker-2"},
		{ServiceName: "vcr-api", ContainerName: "vcr-vcr-api-1"},
		{ServiceName: "vcr-worker", ContainerName: "vcr-vcr-worker-1"},
	}
	SortContainers(containers)
	assert.Equal(t, "vcr-vcr-api-1", containers[0].ContainerName)
	assert.Equal(t, "vcr-vcr-worker-1", containers[1].ContainerName)
	assert.Equal(t, "vcr-vcr-worker-2", containers[2].ContainerName)
}

// TestCLIError verifies message formatting and unwrapping.
func TestCLIError(t *testing.T) {
	base := errors.New("exit status 2")

	err := WrapCLIError(ExitGeneralError, "docker build failed", base)
	assert.Equal(t, "docker build failed: exit status 2", err.Error())
	assert.ErrorIs(t, err, base)

	plain := NewCLIError(ExitGeneralError, "missing seed")
	assert.Equal(t, "missing seed", plain.Error())
	assert.Nil(t, plain.Unwrap())

	var cliErr *CLIError
	require.True(t, errors.As(error(err), &cliErr))
	assert.Equal(t, ExitGeneralError, cliErr.Code)
}
