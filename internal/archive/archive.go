// Package archive executes collection plans into a report directory tree
// and compresses the tree into the final archive.
//
// The archive step is where collection actually happens: copy specs are
// resolved against the filesystem, forbidden paths are enforced, commands
// are run and their output captured. Collection-time failures, e.g. a
// missing file or a failed command, are logged and recorded but never
// abort the run.
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v3"

	"github.com/redhatinsights/hostdiag/internal/plugin"
	"github.com/redhatinsights/hostdiag/internal/runner"
)

// commandDirName is the archive directory holding captured command output.
const commandDirName = "commands"

// CommandRunner is the subset of the command runner the archive step needs.
type CommandRunner interface {
	Run(ctx context.Context, command string) (runner.Output, error)
}

// PluginResult records what one plugin's plan produced in the archive.
type PluginResult struct {
	Name string `json:"name"`
	// Files are the source paths archived for this plugin.
	Files []string `json:"files,omitempty"`
	// Commands is the number of commands captured.
	Commands int `json:"commands"`
	// FileTags maps archived source paths to their classification tag.
	FileTags map[string]string `json:"file_tags,omitempty"`
	// Errors lists non-fatal collection failures.
	Errors []string `json:"errors,omitempty"`
}

// Archiver writes collected data into a report directory tree.
type Archiver struct {
	root string
	run  CommandRunner
}

// New returns an Archiver writing below the given report directory.
func New(root string, run CommandRunner) *Archiver {
	return &Archiver{root: root, run: run}
}

// Apply executes a plugin's collection plan into the report tree. Failures
// of individual collections are recorded in the result, never returned.
func (a *Archiver) Apply(ctx context.Context, pluginName string, plan *plugin.Plan) PluginResult {
	result := PluginResult{Name: pluginName}

	for _, spec := range plan.CopySpecs {
		a.applyCopySpec(spec, plan.ForbiddenPaths, &result)
	}
	tagFiles(plan.FileTags, &result)

	for _, command := range plan.Commands {
		if err := a.captureCommand(ctx, pluginName, command); err != nil {
			slog.Warn("failed to capture command output",
				"plugin", pluginName, "command", command.Command, "error", err)
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Commands++
	}

	return result
}

// applyCopySpec copies every path matching the glob into the report tree,
// honoring forbidden paths.
func (a *Archiver) applyCopySpec(spec string, forbidden []string, result *PluginResult) {
	// Plugins may declare directory specs with a trailing slash.
	matches, err := doublestar.Glob(strings.TrimSuffix(spec, "/"))
	if err != nil {
		slog.Warn("invalid copy spec", "plugin", result.Name, "spec", spec, "error", err)
		result.Errors = append(result.Errors, fmt.Sprintf("copy spec %q: %v", spec, err))
		return
	}
	for _, match := range matches {
		if err := a.copyPath(match, forbidden, result); err != nil {
			slog.Warn("failed to archive path",
				"plugin", result.Name, "path", match, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("copy %q: %v", match, err))
		}
	}
}

// copyPath archives a single file, or recursively a directory, re-checking
// every contained file against the forbidden paths.
func (a *Archiver) copyPath(path string, forbidden []string, result *PluginResult) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return filepath.WalkDir(path, func(sub string, d fs.DirEntry, err error) error {
			if err != nil {
				slog.Debug("skipping unreadable path", "path", sub, "error", err)
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if isForbidden(sub, forbidden) {
				return nil
			}
			if err := a.copyFile(sub); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("copy %q: %v", sub, err))
				return nil
			}
			result.Files = append(result.Files, sub)
			return nil
		})
	}
	if !info.Mode().IsRegular() {
		slog.Debug("skipping non-regular file", "path", path)
		return nil
	}
	if isForbidden(path, forbidden) {
		return nil
	}
	if err := a.copyFile(path); err != nil {
		return err
	}
	result.Files = append(result.Files, path)
	return nil
}

// copyFile copies one file into the report tree, mirroring its source
// path below the report root.
func (a *Archiver) copyFile(path string) error {
	destination := filepath.Join(a.root, path)
	if err := os.MkdirAll(filepath.Dir(destination), 0700); err != nil {
		return err
	}

	source, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := source.Close(); closeErr != nil {
			slog.Debug("failed to close source file", "path", path, "error", closeErr)
		}
	}()

	target, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(target, source); err != nil {
		_ = target.Close()
		return err
	}
	return target.Close()
}

// captureCommand runs one declared command and writes its output into the
// plugin's command directory.
func (a *Archiver) captureCommand(ctx context.Context, pluginName string, command plugin.Command) error {
	if a.run == nil {
		return fmt.Errorf("no command runner configured")
	}
	output, err := a.run.Run(ctx, command.Command)
	if err != nil {
		return err
	}

	directory := filepath.Join(a.root, commandDirName, pluginName, command.Subdir)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return err
	}
	path := filepath.Join(directory, mangleCommand(command.Command))
	if err := os.WriteFile(path, []byte(output.Stdout), 0600); err != nil {
		return err
	}
	if output.Status != 0 {
		slog.Debug("collection command exited with non-zero status",
			"plugin", pluginName, "command", command.Command, "status", output.Status)
	}
	return nil
}

// isForbidden reports whether a path matches any forbidden pattern.
// Forbidden paths take precedence over copy specs.
func isForbidden(path string, forbidden []string) bool {
	for _, pattern := range forbidden {
		matched, err := doublestar.PathMatch(pattern, path)
		if err != nil {
			slog.Warn("invalid forbidden path pattern", "pattern", pattern, "error", err)
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// tagFiles records the classification tag of every archived file whose
// source path matches a tag pattern.
func tagFiles(tags []plugin.FileTag, result *PluginResult) {
	if len(tags) == 0 || len(result.Files) == 0 {
		return
	}
	for _, tag := range tags {
		re, err := regexp.Compile(tag.Pattern)
		if err != nil {
			slog.Warn("invalid file tag pattern", "pattern", tag.Pattern, "error", err)
			continue
		}
		for _, file := range result.Files {
			if re.MatchString(file) {
				if result.FileTags == nil {
					result.FileTags = make(map[string]string)
				}
				result.FileTags[file] = tag.Tag
			}
		}
	}
}

// mangleCommand derives an archive file name from a command line.
func mangleCommand(command string) string {
	name := strings.NewReplacer(
		"/", ".",
		" ", "_",
		"'", "",
		`"`, "",
	).Replace(command)
	if len(name) > 255 {
		name = name[:255]
	}
	return name
}
