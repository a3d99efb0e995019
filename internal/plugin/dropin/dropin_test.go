package dropin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/redhatinsights/hostdiag/internal/plugin"
)

const nginxDefinition = `
[meta]
name = "nginx"
description = "nginx web server"
tags = ["redhat", "debian"]
packages = ["nginx"]
services = ["nginx.service"]

[collect]
copy_specs = ["/etc/nginx", "/var/log/nginx/*"]
forbidden_paths = ["/etc/nginx/**/*.key"]
commands = ["nginx -T"]

[collect.file_tags]
"/var/log/nginx/access.log" = "nginx_access_log"
`

func writeDefinition(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write definition: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "nginx.toml", nginxDefinition)

	plugins, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plugins) != 1 {
		t.Fatalf("got %d plugins, want 1", len(plugins))
	}

	wantDescriptor := plugin.Descriptor{
		Name:        "nginx",
		Description: "nginx web server",
		Tags:        []plugin.Tag{plugin.TagRedHat, plugin.TagDebian},
		Packages:    []string{"nginx"},
		Services:    []string{"nginx.service"},
	}
	if diff := cmp.Diff(wantDescriptor, plugins[0].Descriptor()); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}

	c := plugin.NewContext(nil, nil)
	if err := plugins[0].Setup(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantPlan := &plugin.Plan{
		CopySpecs:      []string{"/etc/nginx", "/var/log/nginx/*"},
		ForbiddenPaths: []string{"/etc/nginx/**/*.key"},
		FileTags: []plugin.FileTag{
			{Pattern: "/var/log/nginx/access.log", Tag: "nginx_access_log"},
		},
		Commands: []plugin.Command{
			{Command: "nginx -T"},
		},
	}
	if diff := cmp.Diff(wantPlan, c.Plan()); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSkipsInvalidDefinitions(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "nginx.toml", nginxDefinition)
	writeDefinition(t, dir, "noname.toml", "[meta]\ndescription = \"no name\"\n")
	writeDefinition(t, dir, "empty.toml", "[meta]\nname = \"empty\"\n")
	writeDefinition(t, dir, "broken.toml", "[meta\n")
	writeDefinition(t, dir, "README.md", "not a definition")

	plugins, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plugins) != 1 || plugins[0].Descriptor().Name != "nginx" {
		t.Errorf("got %d plugins, want only the valid nginx definition", len(plugins))
	}
}

func TestLoadRejectsUnknownTag(t *testing.T) {
	_, err := newPlugin(&definitionDto{
		Meta:    &metaDto{Name: "bad", Tags: []string{"windows"}},
		Collect: &collectDto{Commands: []string{"true"}},
	})
	if err == nil {
		t.Fatal("expected an error for an unknown tag")
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	plugins, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plugins) != 0 {
		t.Errorf("got %d plugins, want none", len(plugins))
	}
}
