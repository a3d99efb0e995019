package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/redhatinsights/hostdiag/internal/archive"
	"github.com/redhatinsights/hostdiag/internal/conf"
	"github.com/redhatinsights/hostdiag/internal/report"
	"github.com/redhatinsights/hostdiag/internal/runner"
	"github.com/redhatinsights/hostdiag/internal/ui"
)

// ReportResult is structure holding information about the result of the
// report command. The result could be printed in machine-readable format.
type ReportResult struct {
	Hostname  string                 `json:"hostname"`
	Archive   string                 `json:"archive"`
	ReportDir string                 `json:"report_dir,omitempty"`
	Plugins   []archive.PluginResult `json:"plugins"`
	Skipped   []string               `json:"skipped,omitempty"`
	format    string
}

// Error implement error interface for structure ReportResult
func (reportResult ReportResult) Error() string {
	var result string
	switch reportResult.format {
	case "json":
		data, err := json.MarshalIndent(reportResult, "", "    ")
		if err != nil {
			return err.Error()
		}
		result = string(data)
	case "":
		break
	default:
		result = "error: unsupported document format: " + reportResult.format
	}
	return result
}

func reportCommand(appName string) *cli.Command {
	return &cli.Command{
		Name: "report",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "plugin",
				Usage:   "collect only the named `PLUGIN` (can be repeated)",
				Aliases: []string{"p"},
			},
			&cli.BoolFlag{
				Name:  "keep",
				Usage: "keep the uncompressed report directory",
			},
			&cli.StringFlag{
				Name:    "format",
				Usage:   "prints the report result in machine-readable format (supported formats: \"json\")",
				Aliases: []string{"f"},
			},
		},
		Usage:     "Collects a diagnostic report from this host",
		UsageText: fmt.Sprintf("%v report [command options]", appName),
		Description: fmt.Sprintf("The report command determines which collection plugins apply to this host, "+
			"gathers the configuration files, log files and command output they declare and packs "+
			"everything into a compressed archive. Run '%v plugins list' to see the available plugins.", appName),
		Before: beforeReportAction,
		Action: reportAction,
	}
}

// beforeReportAction ensures that user has supplied correct CLI options.
func beforeReportAction(ctx *cli.Context) error {
	if err := setupFormatOption(ctx); err != nil {
		return err
	}

	return checkForUnknownArgs(ctx)
}

// reportAction collects a report and prints where the archive was written.
func reportAction(ctx *cli.Context) error {
	uid := os.Getuid()
	if uid != 0 {
		return cli.Exit(fmt.Errorf("error: non-root user cannot collect a report"), ExitCodeNoPerm)
	}

	hostname, err := os.Hostname()
	if err != nil {
		return cli.Exit(err, ExitCodeOSErr)
	}

	ui.Printf("Collecting diagnostic data from %v.\nThis might take a few minutes.\n\n", hostname)

	run := runner.New(time.Duration(conf.Config.CommandTimeout) * time.Second)
	engine := report.NewEngine(newRegistry(), run)

	// The --plugin option wins over the plugin list in the config file.
	plugins := ctx.StringSlice("plugin")
	if len(plugins) == 0 {
		plugins = conf.Config.Plugins
	}
	options := report.Options{
		OutputDir: conf.Config.OutputDir,
		Plugins:   plugins,
		Keep:      ctx.Bool("keep"),
		Version:   Version,
	}

	var summary *report.Summary
	err = ui.Spinner(func() error {
		var runErr error
		summary, runErr = engine.Run(ctx.Context, options)
		return runErr
	}, ui.Indent.Small, "Collecting diagnostic data...")
	if err != nil {
		return cli.Exit(err, ExitCodeErr)
	}

	if ui.IsOutputMachineReadable() {
		result := ReportResult{
			Hostname:  summary.Facts.Hostname,
			Archive:   summary.ArchivePath,
			ReportDir: summary.ReportDir,
			Plugins:   summary.Results,
			Skipped:   summary.Skipped,
			format:    ctx.String("format"),
		}
		return cli.Exit(result, ExitCodeOK)
	}

	for _, name := range summary.Skipped {
		ui.Printf("%v %v: does not apply to this host\n", ui.Icons.Info, name)
	}
	for _, pluginResult := range summary.Results {
		icon := ui.Icons.Ok
		if len(pluginResult.Errors) > 0 {
			icon = ui.Icons.Error
		}
		ui.Printf("%v %v: %v files, %v commands\n",
			icon, pluginResult.Name, len(pluginResult.Files), pluginResult.Commands)
	}

	ui.Printf("\nReport written to %v\n", summary.ArchivePath)
	if summary.ReportDir != "" {
		ui.Printf("Uncompressed report kept in %v\n", summary.ReportDir)
	}
	return nil
}
