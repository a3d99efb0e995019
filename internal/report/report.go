// Package report orchestrates a diagnostic report run: it gathers host
// facts, decides which plugins apply, collects their plans into a report
// directory and compresses the directory into the final archive.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/redhatinsights/hostdiag/internal/archive"
	"github.com/redhatinsights/hostdiag/internal/plugin"
	"github.com/redhatinsights/hostdiag/internal/policy"
	"github.com/redhatinsights/hostdiag/internal/probe"
	"github.com/redhatinsights/hostdiag/internal/runner"
	"github.com/redhatinsights/hostdiag/internal/systemd"
)

// applyConcurrency bounds how many plugin plans are collected in parallel.
const applyConcurrency = 4

// CommandRunner is the subset of the command runner a report run needs.
type CommandRunner interface {
	Run(ctx context.Context, command string) (runner.Output, error)
}

// unitChecker is the subset of the systemd connection used for service
// triggers.
type unitChecker interface {
	UnitActive(name string) (bool, error)
	Close()
}

// Options configures one report run.
type Options struct {
	// OutputDir is where the final archive is written. Empty means the
	// current directory.
	OutputDir string
	// Plugins restricts the run to the named plugins. Empty means all
	// registered plugins.
	Plugins []string
	// Keep leaves the uncompressed report directory behind.
	Keep bool
	// Version is recorded in the report manifest.
	Version string
}

// Summary is the outcome of a report run.
type Summary struct {
	// ArchivePath is the path of the compressed report archive.
	ArchivePath string
	// ReportDir is the uncompressed report directory. It is set only when
	// the run was asked to keep it.
	ReportDir string
	// Facts are the host facts the run was based on.
	Facts policy.Facts
	// Results holds the per-plugin collection results in plugin order.
	Results []archive.PluginResult
	// Skipped lists the plugins that did not apply to this host.
	Skipped []string
}

// Engine runs diagnostic reports over a fixed plugin registry.
type Engine struct {
	registry *plugin.Registry
	run      CommandRunner

	// Injectable for tests.
	facts   func(ctx context.Context) policy.Facts
	connect func(ctx context.Context) (unitChecker, error)
	tarball func(ctx context.Context, sourceDir, outputDir string) (string, error)
}

// NewEngine returns an engine collecting with the given runner.
func NewEngine(registry *plugin.Registry, run CommandRunner) *Engine {
	return &Engine{
		registry: registry,
		run:      run,
		facts: func(ctx context.Context) policy.Facts {
			return policy.CollectFacts(ctx, run)
		},
		connect: func(ctx context.Context) (unitChecker, error) {
			return systemd.NewConnectionContext(ctx, systemd.ConnectionTypeSystem)
		},
		tarball: archive.CreateTarball,
	}
}

// Run executes one report run and returns its summary. Per-plugin
// collection failures are recorded in the summary; Run itself fails only
// when the run as a whole cannot produce an archive.
func (e *Engine) Run(ctx context.Context, options Options) (*Summary, error) {
	started := time.Now()
	facts := e.facts(ctx)
	slog.Info("host facts gathered",
		"hostname", facts.Hostname, "os_families", facts.OSFamilies)

	selected, err := e.selectPlugins(options.Plugins)
	if err != nil {
		return nil, err
	}

	packages := policy.NewPackageManager(facts.OSFamilies, e.run)

	conn, err := e.connect(ctx)
	if err != nil {
		slog.Debug("systemd is not reachable, service triggers disabled", "error", err)
		conn = nil
	} else {
		defer conn.Close()
	}
	host := hostInfo(facts, packages, conn)

	reportDir, err := os.MkdirTemp("", "hostdiag-")
	if err != nil {
		return nil, fmt.Errorf("cannot create report directory: %w", err)
	}
	keepReportDir := false
	defer func() {
		if !keepReportDir {
			if removeErr := os.RemoveAll(reportDir); removeErr != nil {
				slog.Warn("failed to remove report directory",
					"path", reportDir, "error", removeErr)
			}
		}
	}()

	summary := &Summary{Facts: facts}

	// Setup is sequential so that probe commands of different plugins never
	// interleave; the actual collection below is parallel.
	type plannedPlugin struct {
		name string
		plan *plugin.Plan
	}
	var planned []plannedPlugin
	for _, p := range selected {
		descriptor := p.Descriptor()
		if !plugin.Applicable(ctx, descriptor, host) {
			slog.Debug("plugin does not apply", "plugin", descriptor.Name)
			summary.Skipped = append(summary.Skipped, descriptor.Name)
			continue
		}
		c := plugin.NewContext(packages, probe.ExecProber{Runner: e.run})
		if err := p.Setup(ctx, c); err != nil {
			slog.Warn("plugin setup failed", "plugin", descriptor.Name, "error", err)
			summary.Results = append(summary.Results, archive.PluginResult{
				Name:   descriptor.Name,
				Errors: []string{err.Error()},
			})
			continue
		}
		planned = append(planned, plannedPlugin{name: descriptor.Name, plan: c.Plan()})
	}

	archiver := archive.New(reportDir, e.run)
	results := make([]archive.PluginResult, len(planned))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(applyConcurrency)
	for i, item := range planned {
		group.Go(func() error {
			slog.Debug("collecting plugin", "plugin", item.name)
			results[i] = archiver.Apply(groupCtx, item.name, item.plan)
			return nil
		})
	}
	_ = group.Wait()
	summary.Results = append(summary.Results, results...)

	manifest := archive.NewManifest(options.Version, facts)
	manifest.StartedAt = started.UTC()
	manifest.Plugins = summary.Results
	if err := manifest.Write(reportDir); err != nil {
		return nil, fmt.Errorf("cannot write report manifest: %w", err)
	}

	outputDir := options.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	archivePath, err := e.tarball(ctx, reportDir, outputDir)
	if err != nil {
		return nil, err
	}
	summary.ArchivePath = archivePath

	if options.Keep {
		keepReportDir = true
		summary.ReportDir = reportDir
	}
	return summary, nil
}

// selectPlugins resolves the requested plugin names against the registry.
// An empty request selects every registered plugin.
func (e *Engine) selectPlugins(names []string) ([]plugin.Plugin, error) {
	if len(names) == 0 {
		return e.registry.Plugins(), nil
	}
	var selected []plugin.Plugin
	for _, name := range names {
		p, ok := e.registry.Find(name)
		if !ok {
			return nil, fmt.Errorf("unknown plugin %q", name)
		}
		selected = append(selected, p)
	}
	return selected, nil
}

// hostInfo builds the applicability lookups for this run. Lookups that
// cannot be established, e.g. no D-Bus connection inside a container,
// degrade to predicates that never fire.
func hostInfo(facts policy.Facts, packages *policy.PackageManager, conn unitChecker) plugin.HostInfo {
	host := plugin.HostInfo{
		OSFamilies: facts.OSFamilies,
		Containers: facts.Containers,
		PackageInstalled: func(ctx context.Context, name string) bool {
			return packages.Query(ctx, name) == probe.Present
		},
		PathGlobExists: func(glob string) bool {
			matches, err := doublestar.Glob(glob)
			if err != nil {
				slog.Warn("invalid file trigger glob", "glob", glob, "error", err)
				return false
			}
			return len(matches) > 0
		},
	}
	if conn == nil {
		return host
	}
	host.ServiceActive = func(name string) bool {
		active, err := conn.UnitActive(name)
		if err != nil {
			slog.Debug("cannot query unit state", "unit", name, "error", err)
			return false
		}
		return active
	}
	return host
}
