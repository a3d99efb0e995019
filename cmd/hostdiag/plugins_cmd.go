package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/redhatinsights/hostdiag/internal/plugin"
	"github.com/redhatinsights/hostdiag/internal/plugin/cephmgr"
	"github.com/redhatinsights/hostdiag/internal/plugin/dropin"
	"github.com/redhatinsights/hostdiag/internal/plugin/samba"
	"github.com/redhatinsights/hostdiag/internal/ui"
)

// newRegistry returns the registry of the built-in collection plugins plus
// the drop-in definitions found on this host.
func newRegistry() *plugin.Registry {
	registry := plugin.NewRegistry(
		cephmgr.New(),
		samba.New(),
	)

	dropins, err := dropin.Load(dropin.ConfigDir)
	if err != nil {
		slog.Warn("failed to read drop-in plugin definitions", "error", err)
	}
	for _, p := range dropins {
		if err := registry.Register(p); err != nil {
			slog.Warn("failed to register drop-in plugin", "error", err)
		}
	}

	return registry
}

// PluginInfo is the machine-readable description of one plugin.
type PluginInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Packages    []string `json:"packages,omitempty"`
	Profiles    []string `json:"profiles,omitempty"`
	Files       []string `json:"files,omitempty"`
	Containers  []string `json:"containers,omitempty"`
	Services    []string `json:"services,omitempty"`
}

func pluginInfo(d plugin.Descriptor) PluginInfo {
	tags := make([]string, 0, len(d.Tags))
	for _, tag := range d.Tags {
		tags = append(tags, string(tag))
	}
	return PluginInfo{
		Name:        d.Name,
		Description: d.Description,
		Tags:        tags,
		Packages:    d.Packages,
		Profiles:    d.Profiles,
		Files:       d.Files,
		Containers:  d.Containers,
		Services:    d.Services,
	}
}

func pluginsCommand(appName string) *cli.Command {
	formatFlag := &cli.StringFlag{
		Name:    "format",
		Usage:   "prints plugin information in machine-readable format (supported formats: \"json\")",
		Aliases: []string{"f"},
	}
	return &cli.Command{
		Name:      "plugins",
		Usage:     "Prints information about the collection plugins",
		UsageText: fmt.Sprintf("%v plugins command", appName),
		Subcommands: []*cli.Command{
			{
				Name:      "list",
				Flags:     []cli.Flag{formatFlag},
				Usage:     "Lists the available collection plugins",
				UsageText: fmt.Sprintf("%v plugins list", appName),
				Before:    beforePluginsListAction,
				Action:    pluginsListAction,
			},
			{
				Name:      "info",
				Flags:     []cli.Flag{formatFlag},
				Usage:     "Prints details of one collection plugin",
				UsageText: fmt.Sprintf("%v plugins info PLUGIN", appName),
				Before:    setupFormatOption,
				Action:    pluginsInfoAction,
			},
		},
	}
}

func beforePluginsListAction(ctx *cli.Context) error {
	if err := setupFormatOption(ctx); err != nil {
		return err
	}

	return checkForUnknownArgs(ctx)
}

func pluginsListAction(_ *cli.Context) error {
	registry := newRegistry()

	if ui.IsOutputMachineReadable() {
		infos := make([]PluginInfo, 0, len(registry.Plugins()))
		for _, p := range registry.Plugins() {
			infos = append(infos, pluginInfo(p.Descriptor()))
		}
		data, err := json.MarshalIndent(infos, "", "    ")
		if err != nil {
			return cli.Exit(err, ExitCodeSoftware)
		}
		fmt.Println(string(data))
		return nil
	}

	var rows [][]string
	for _, p := range registry.Plugins() {
		descriptor := p.Descriptor()
		rows = append(rows, []string{descriptor.Name, descriptor.Description})
	}
	ui.PrintTable(rows, ui.Indent.Medium, terminalWidth())
	return nil
}

func pluginsInfoAction(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return cli.Exit(fmt.Errorf("error: expected exactly one plugin name"), ExitCodeUsage)
	}
	name := ctx.Args().First()

	p, ok := newRegistry().Find(name)
	if !ok {
		return cli.Exit(fmt.Errorf("error: unknown plugin %q", name), ExitCodeNoInput)
	}
	info := pluginInfo(p.Descriptor())

	if ui.IsOutputMachineReadable() {
		data, err := json.MarshalIndent(info, "", "    ")
		if err != nil {
			return cli.Exit(err, ExitCodeSoftware)
		}
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Name\t%v\n", info.Name)
	_, _ = fmt.Fprintf(w, "Description\t%v\n", info.Description)
	_, _ = fmt.Fprintf(w, "OS families\t%v\n", strings.Join(info.Tags, ", "))
	_, _ = fmt.Fprintf(w, "Profiles\t%v\n", strings.Join(info.Profiles, ", "))
	_, _ = fmt.Fprintf(w, "Trigger packages\t%v\n", strings.Join(info.Packages, ", "))
	_, _ = fmt.Fprintf(w, "Trigger files\t%v\n", strings.Join(info.Files, ", "))
	_, _ = fmt.Fprintf(w, "Trigger containers\t%v\n", strings.Join(info.Containers, ", "))
	_, _ = fmt.Fprintf(w, "Trigger services\t%v\n", strings.Join(info.Services, ", "))
	return w.Flush()
}

// terminalWidth returns the width of the terminal on standard output, or a
// conservative default when the output is not a terminal.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
