// Package model defines the domain types for the vcr-manage CLI.
//
// The tool owns no persistent data. These types describe the things it
// orchestrates: build targets, the compose services it starts, and the
// exit codes it reports back to the shell.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// BuildTarget names one image build routine.
type BuildTarget string

const (
	// TargetAll builds every image except the echo test application.
	TargetAll BuildTarget = "all"

	TargetWeb       BuildTarget = "web"
	TargetSolr      BuildTarget = "solr"
	TargetDB        BuildTarget = "db"
	TargetSchemaSpy BuildTarget = "schema-spy"
	TargetAPI       BuildTarget = "api"
	TargetAgent     BuildTarget = "agent"
	TargetEchoApp   BuildTarget = "echo-app"
)

// TargetPrefix is the project prefix accepted in front of a build target
// name, so "vcr-api" and "api" select the same routine.
const TargetPrefix = "vcr-"

// String returns the string representation of BuildTarget.
func (t BuildTarget) String() string {
	return string(t)
}

// IsValid checks whether the BuildTarget is one of the known targets.
func (t BuildTarget) IsValid() bool {
	switch t {
	case TargetAll, TargetWeb, TargetSolr, TargetDB, TargetSchemaSpy,
		TargetAPI, TargetAgent, TargetEchoApp:
		return true
	default:
		return false
	}
}

// AllTargets returns the targets built by "build" with no argument, in
// build order. The web image goes last because it takes the longest.
func AllTargets() []BuildTarget {
	return []BuildTarget{
		TargetSolr,
		TargetDB,
		TargetSchemaSpy,
		TargetAPI,
		TargetAgent,
		TargetWeb,
	}
}

// ParseBuildTarget converts a command-line target name to a BuildTarget.
// Matching is case-insensitive, an optional "vcr-" prefix is stripped,
// and an empty name selects TargetAll. A bare "vcr-" is unknown.
func ParseBuildTarget(s string) (BuildTarget, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return TargetAll, nil
	}
	name = strings.TrimPrefix(name, TargetPrefix)

	target := BuildTarget(name)
	if !target.IsValid() {
		return "", fmt.Errorf("unknown build target: %q", s)
	}
	return target, nil
}

// Command is a top-level vcr-manage command keyword.
type Command string

const (
	CommandBuild        Command = "build"
	CommandUp           Command = "up"
	CommandStart        Command = "start"
	CommandRestart      Command = "restart"
	CommandLogs         Command = "logs"
	CommandWebDev       Command = "web-dev"
	CommandStop         Command = "stop"
	CommandStartDB      Command = "startdb"
	CommandStopDB       Command = "stopdb"
	CommandDown         Command = "down"
	CommandRm           Command = "rm"
	CommandRegisterDIDs Command = "registerdids"
	CommandShell        Command = "shell"
	CommandAPI          Command = "api"
	CommandTestAPI      Command = "test-api"
	CommandEnv          Command = "env"
	CommandTargets      Command = "targets"
	CommandStatus       Command = "status"
)

// String returns the string representation of Command.
func (c Command) String() string {
	return string(c)
}

// RequiresSeed reports whether the command refuses to run without a
// wallet seed.
func (c Command) RequiresSeed() bool {
	switch c {
	case CommandUp, CommandStart, CommandRestart, CommandRegisterDIDs:
		return true
	default:
		return false
	}
}

// PassesThrough reports whether the command hands its arguments to a
// program inside a container. vcr-manage's own options are not looked
// for after such a command name.
func (c Command) PassesThrough() bool {
	switch c {
	case CommandShell, CommandAPI, CommandTestAPI:
		return true
	default:
		return false
	}
}

// Service names from the compose file.
const (
	ServiceWalletDB       = "wallet-db"
	ServiceDB             = "vcr-db"
	ServiceSolr           = "vcr-solr"
	ServiceAPI            = "vcr-api"
	ServiceWorker         = "vcr-worker"
	ServiceSchemaSpy      = "schema-spy"
	ServiceWeb            = "vcr-web"
	ServiceAgent          = "vcr-agent"
	ServiceMsgQueue       = "msg-queue"
	ServiceMsgQueueWorker = "msg-queue-worker"
)

// DefaultWorkerReplicas is the replica count forced on the worker
// service whenever containers are brought up.
const DefaultWorkerReplicas = 2

// DefaultContainers returns the services targeted by lifecycle commands
// when no container names are given on the command line.
func DefaultContainers() []string {
	return []string{
		ServiceWalletDB,
		ServiceDB,
		ServiceSolr,
		ServiceAPI,
		ServiceWorker,
		ServiceSchemaSpy,
		ServiceWeb,
		ServiceAgent,
		ServiceMsgQueue,
		ServiceMsgQueueWorker,
	}
}

// DatabaseContainers returns the services started by "startdb".
func DatabaseContainers() []string {
	return []string{ServiceWalletDB, ServiceDB}
}

// ContainerInfo holds runtime information about one container of the
// compose project, as reported by the Docker Engine API.
type ContainerInfo struct {
	ContainerID   string `json:"containerId"`
	ContainerName string `json:"containerName"`
	ServiceName   string `json:"serviceName"`
	Image         string `json:"image"`

	// State is the short Docker state ("running", "exited", "created").
	State string `json:"state"`

	// Status is the human-readable Docker status ("Up 3 minutes").
	Status string `json:"status"`
}

// SortContainers orders containers by service name, then container name.
func SortContainers(containers []ContainerInfo) {
	sort.Slice(containers, func(i, j int) bool {
		if containers[i].ServiceName != containers[j].ServiceName {
			return containers[i].ServiceName < containers[j].ServiceName
		}
		return containers[i].ContainerName < containers[j].ContainerName
	})
}

// ExitCode defines the process exit codes of the CLI.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError covers missing binaries, missing seeds or themes,
	// unknown build targets and usage errors.
	ExitGeneralError ExitCode = 1

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 3

	// ExitPortUnavailable indicates a host port needed by web-dev is taken.
	ExitPortUnavailable ExitCode = 4
)

// CLIError is an error that carries the exit code the process should
// terminate with.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
