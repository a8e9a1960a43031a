package config

import (
	"os"
	"sort"
	"strings"
)

// Source records where an environment value came from.
type Source string

const (
	SourceProcess  Source = "process"
	SourceDotEnv   Source = ".env"
	SourceArgument Source = "argument"
	SourceOverride Source = "override"
	SourceDefault  Source = "default"
	SourceDetected Source = "detected"
)

// Entry is a single environment variable with its origin.
type Entry struct {
	Name   string `json:"name" yaml:"name"`
	Value  string `json:"value" yaml:"value"`
	Source Source `json:"source" yaml:"source"`
}

// Env is the environment handed to every child process. Insertion
// order is preserved so Environ output is stable.
type Env struct {
	entries map[string]*Entry
	order   []string
}

// NewEnv returns an empty Env.
func NewEnv() *Env {
	return &Env{entries: make(map[string]*Entry)}
}

// EnvFromEnviron builds an Env from KEY=VALUE pairs such as os.Environ().
func EnvFromEnviron(environ []string) *Env {
	e := NewEnv()
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		e.Set(name, value, SourceProcess)
	}
	return e
}

// Lookup returns the value of name and whether it is set.
func (e *Env) Lookup(name string) (string, bool) {
	entry, ok := e.entries[name]
	if !ok {
		return "", false
	}
	return entry.Value, true
}

// Get returns the value of name, or "" when unset.
func (e *Env) Get(name string) string {
	v, _ := e.Lookup(name)
	return v
}

// Source returns the origin of name, or "" when unset.
func (e *Env) Source(name string) Source {
	if entry, ok := e.entries[name]; ok {
		return entry.Source
	}
	return ""
}

// Set assigns value to name. Empty names are ignored.
func (e *Env) Set(name, value string, src Source) {
	if name == "" {
		return
	}
	if entry, ok := e.entries[name]; ok {
		entry.Value = value
		entry.Source = src
		return
	}
	e.entries[name] = &Entry{Name: name, Value: value, Source: src}
	e.order = append(e.order, name)
}

// Expand replaces ${NAME} and $NAME references in s with values from e.
func (e *Env) Expand(s string) string {
	return os.Expand(s, e.Get)
}

// Environ returns the environment in KEY=VALUE form, in insertion order.
func (e *Env) Environ() []string {
	out := make([]string, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, name+"="+e.entries[name].Value)
	}
	return out
}

// Entries returns a copy of every entry sorted by name.
func (e *Env) Entries() []Entry {
	out := make([]Entry, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, *e.entries[name])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
