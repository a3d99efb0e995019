package plugin

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/redhatinsights/hostdiag/internal/probe"
)

// PackageQuerier looks up installed packages.
type PackageQuerier interface {
	Query(ctx context.Context, name string) probe.Presence
}

// Context records the collection requests a plugin declares during Setup
// and gives the plugin access to host capability lookups. A fresh Context
// is created for every plugin on every report run.
type Context struct {
	packages PackageQuerier
	prober   probe.Prober
	plan     Plan
}

// NewContext returns a Context backed by the given package lookup and
// capability prober. Either may be nil; lookups then report indeterminate.
func NewContext(packages PackageQuerier, prober probe.Prober) *Context {
	return &Context{packages: packages, prober: prober}
}

// AddCopySpec requests a recursive copy of all paths matching the given
// glob patterns into the report archive.
func (c *Context) AddCopySpec(globs ...string) {
	c.plan.CopySpecs = append(c.plan.CopySpecs, globs...)
}

// AddForbiddenPath excludes paths matching the given glob patterns from
// collection. Forbidden paths always win over copy specs.
func (c *Context) AddForbiddenPath(globs ...string) {
	c.plan.ForbiddenPaths = append(c.plan.ForbiddenPaths, globs...)
}

// AddFileTags attaches classification labels to archived files whose
// source path matches the pattern keys. Patterns are recorded in sorted
// order so that plans are deterministic.
func (c *Context) AddFileTags(tags map[string]string) {
	patterns := make([]string, 0, len(tags))
	for pattern := range tags {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)
	for _, pattern := range patterns {
		c.plan.FileTags = append(c.plan.FileTags, FileTag{Pattern: pattern, Tag: tags[pattern]})
	}
}

// AddCmdOutput requests execution and output capture of each command.
func (c *Context) AddCmdOutput(commands ...string) {
	for _, command := range commands {
		c.plan.Commands = append(c.plan.Commands, Command{Command: command})
	}
}

// AddCmdOutputSubdir requests execution and output capture of each
// command, routing the captured output into the named subdirectory of the
// plugin's command output directory.
func (c *Context) AddCmdOutputSubdir(subdir string, commands ...string) {
	for _, command := range commands {
		c.plan.Commands = append(c.plan.Commands, Command{Command: command, Subdir: subdir})
	}
}

// ExecCmd synchronously runs a probe command and reports its outcome
// without archiving the output. Plugins use it for capability detection; a
// failing probe means the capability is absent, never an error.
func (c *Context) ExecCmd(ctx context.Context, command string) probe.Result {
	if c.prober == nil {
		return probe.Result{Presence: probe.Indeterminate, Status: -1}
	}
	return c.prober.Probe(ctx, command)
}

// Package reports whether the named package is installed on the host.
func (c *Context) Package(ctx context.Context, name string) probe.Presence {
	if c.packages == nil {
		return probe.Indeterminate
	}
	return c.packages.Query(ctx, name)
}

// PathJoin joins path elements into a single filesystem path.
func (c *Context) PathJoin(elem ...string) string {
	return filepath.Join(elem...)
}

// Plan returns the requests recorded so far.
func (c *Context) Plan() *Plan {
	return &c.plan
}
