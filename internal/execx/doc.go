// Package execx runs external tools (docker, docker-compose, s2i) as
// child processes and reports their outcome as a structured Result
// instead of terminating the program.
//
// The Runner interface is the seam used by tests: command handlers
// depend on it, the binary uses HostRunner.
package execx
