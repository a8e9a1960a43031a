// Package model defines the domain types and value objects for the
// vcr-manage CLI.
//
// This package contains pure data structures with no external
// dependencies: build targets, command keywords, the fixed service
// lists of the compose project, and the exit codes (ExitCode) carried
// by CLIError for process exit handling.
package model
