// Package dropin loads declarative collection plugins from TOML definition
// files. Drop-in plugins cover the common case of a support engineer who
// wants extra files or command output collected without building the tool:
// a definition names its triggers and collections, and the framework treats
// it like any built-in plugin.
package dropin

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/redhatinsights/hostdiag/internal/plugin"
)

// ConfigDir is the default directory path where drop-in plugin definitions
// are stored.
const ConfigDir = "/etc/hostdiag/plugins.d/"

// definitionDto represents the structure of a TOML definition file for
// parsing.
type definitionDto struct {
	Meta    *metaDto    `toml:"meta"`
	Collect *collectDto `toml:"collect"`
}

// metaDto represents the metadata section of a TOML definition file.
type metaDto struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Tags        []string `toml:"tags"`
	Packages    []string `toml:"packages"`
	Profiles    []string `toml:"profiles"`
	Files       []string `toml:"files"`
	Containers  []string `toml:"containers"`
	Services    []string `toml:"services"`
}

// collectDto represents the collection section of a TOML definition file.
type collectDto struct {
	CopySpecs      []string          `toml:"copy_specs"`
	ForbiddenPaths []string          `toml:"forbidden_paths"`
	Commands       []string          `toml:"commands"`
	FileTags       map[string]string `toml:"file_tags"`
}

// Plugin is a collection plugin defined by a drop-in TOML file.
type Plugin struct {
	descriptor plugin.Descriptor
	collect    collectDto
}

func (p *Plugin) Descriptor() plugin.Descriptor {
	return p.descriptor
}

func (p *Plugin) Setup(_ context.Context, c *plugin.Context) error {
	c.AddCopySpec(p.collect.CopySpecs...)
	c.AddForbiddenPath(p.collect.ForbiddenPaths...)
	if len(p.collect.FileTags) > 0 {
		c.AddFileTags(p.collect.FileTags)
	}
	c.AddCmdOutput(p.collect.Commands...)
	return nil
}

// Load returns the plugins defined by valid TOML files in dir. Invalid
// definitions are logged and skipped; a missing directory yields no
// plugins and no error.
func Load(dir string) ([]*Plugin, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var plugins []*Plugin
	for _, entry := range entries {
		if !isFileToml(entry) {
			slog.Warn("skipping non-definition file",
				"path", filepath.Join(dir, entry.Name()))
			continue
		}
		p, err := loadDefinitionFromFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			slog.Warn("failed to load plugin definition",
				"file", entry.Name(), "error", err)
			continue
		}
		plugins = append(plugins, p)
	}

	return plugins, nil
}

// isFileToml returns true if the file entry is a regular file with a .toml
// extension.
func isFileToml(file os.DirEntry) bool {
	return !file.IsDir() && strings.HasSuffix(file.Name(), ".toml")
}

// loadDefinitionFromFile loads one drop-in plugin definition file.
func loadDefinitionFromFile(path string) (*Plugin, error) {
	var dto definitionDto
	if _, err := toml.DecodeFile(path, &dto); err != nil {
		return nil, err
	}
	return newPlugin(&dto)
}

// newPlugin creates a Plugin from a definitionDto and validates required
// fields.
func newPlugin(dto *definitionDto) (*Plugin, error) {
	if dto.Meta == nil {
		return nil, fmt.Errorf("invalid definition: meta section is required")
	}
	if dto.Meta.Name == "" {
		return nil, fmt.Errorf("invalid definition: meta.name is required")
	}

	tags := make([]plugin.Tag, 0, len(dto.Meta.Tags))
	for _, tag := range dto.Meta.Tags {
		switch t := plugin.Tag(tag); t {
		case plugin.TagRedHat, plugin.TagDebian, plugin.TagUbuntu:
			tags = append(tags, t)
		default:
			return nil, fmt.Errorf("invalid definition: unknown tag %q", tag)
		}
	}

	p := &Plugin{
		descriptor: plugin.Descriptor{
			Name:        dto.Meta.Name,
			Description: dto.Meta.Description,
			Tags:        tags,
			Packages:    dto.Meta.Packages,
			Profiles:    dto.Meta.Profiles,
			Files:       dto.Meta.Files,
			Containers:  dto.Meta.Containers,
			Services:    dto.Meta.Services,
		},
	}
	if dto.Collect != nil {
		p.collect = *dto.Collect
	}
	if len(p.collect.CopySpecs)+len(p.collect.Commands) == 0 {
		return nil, fmt.Errorf("invalid definition: collect.copy_specs or collect.commands is required")
	}
	return p, nil
}
