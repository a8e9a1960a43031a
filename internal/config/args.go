package config

import (
	"strings"

	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// SeedKey is the command-line assignment key that carries a wallet seed.
// It may be repeated for registerdids.
const SeedKey = "seed"

// Assignment is one KEY=VALUE token from the command line.
type Assignment struct {
	Name  string
	Value string
}

// String renders the assignment back into KEY=VALUE form.
func (a Assignment) String() string {
	return a.Name + "=" + a.Value
}

// Args is the classified form of a command's positional arguments.
type Args struct {
	// Assignments holds every token containing "=", in order.
	Assignments []Assignment

	// Flags holds tokens starting with "-", forwarded to the external tool.
	Flags []string

	// Targets holds the remaining bare tokens: container names or
	// sub-command arguments, depending on the command.
	Targets []string

	// Seeds holds the values of every seed= assignment, in order.
	Seeds []string
}

// ClassifyArgs splits args into assignments, flags and bare targets.
// Values are not validated; a malformed assignment is kept verbatim.
func ClassifyArgs(args []string) Args {
	var out Args
	for _, arg := range args {
		switch {
		case strings.Contains(arg, "=") && !strings.HasPrefix(arg, "-"):
			name, value, _ := strings.Cut(arg, "=")
			out.Assignments = append(out.Assignments, Assignment{Name: name, Value: value})
			if name == SeedKey {
				out.Seeds = append(out.Seeds, value)
			}
		case strings.HasPrefix(arg, "-"):
			out.Flags = append(out.Flags, arg)
		default:
			out.Targets = append(out.Targets, arg)
		}
	}
	return out
}

// Containers returns the bare targets, or defaults when none were given.
func (a Args) Containers(defaults []string) []string {
	if len(a.Targets) == 0 {
		out := make([]string, len(defaults))
		copy(out, defaults)
		return out
	}
	return a.Targets
}

// Passthrough returns flags and targets in their original relative
// order, for commands that hand everything but assignments to a
// program running inside a container.
func Passthrough(args []string) []string {
	var out []string
	for _, arg := range args {
		if strings.Contains(arg, "=") && !strings.HasPrefix(arg, "-") {
			continue
		}
		out = append(out, arg)
	}
	return out
}

// ToolOptions are the options of vcr-manage itself. They may appear
// anywhere on the command line and are never forwarded.
type ToolOptions struct {
	DryRun     bool
	Verbose    bool
	JSON       bool
	YAML       bool
	Help       bool
	ProjectDir string
}

// ExtractToolOptions removes vcr-manage's own options from args and
// returns them with the remaining arguments.
//
// Extraction stops at "--", which is dropped, and after the name of a
// command that passes its arguments through (shell, api, test-api), so
// "api showmigrations -h" reaches manage.py intact.
func ExtractToolOptions(args []string) (ToolOptions, []string) {
	var opts ToolOptions
	rest := make([]string, 0, len(args))
	skipNext := false
	for i, arg := range args {
		if skipNext {
			skipNext = false
			continue
		}
		switch {
		case arg == "--":
			return opts, append(rest, args[i+1:]...)
		case arg == "--dry-run":
			opts.DryRun = true
		case arg == "--verbose":
			opts.Verbose = true
		case arg == "--json":
			opts.JSON = true
		case arg == "--yaml":
			opts.YAML = true
		case arg == "--help" || arg == "-h":
			opts.Help = true
		case strings.HasPrefix(arg, "--project-dir="):
			opts.ProjectDir = strings.TrimPrefix(arg, "--project-dir=")
		case arg == "--project-dir":
			if i+1 < len(args) {
				opts.ProjectDir = args[i+1]
				skipNext = true
			}
		default:
			rest = append(rest, arg)
			if len(rest) == 1 && model.Command(strings.ToLower(arg)).PassesThrough() {
				return opts, append(rest, args[i+1:]...)
			}
		}
	}
	return opts, rest
}
