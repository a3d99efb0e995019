package main

import (
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/subpop/go-log"

	"github.com/redhatinsights/hostdiag/internal/plugin"
)

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		description string
		input       log.Level
		want        slog.Level
	}{
		{
			description: "trace maps to debug",
			input:       log.LevelTrace,
			want:        slog.LevelDebug,
		},
		{
			description: "debug",
			input:       log.LevelDebug,
			want:        slog.LevelDebug,
		},
		{
			description: "info",
			input:       log.LevelInfo,
			want:        slog.LevelInfo,
		},
		{
			description: "warn",
			input:       log.LevelWarn,
			want:        slog.LevelWarn,
		},
		{
			description: "error",
			input:       log.LevelError,
			want:        slog.LevelError,
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			if got := slogLevel(test.input); got != test.want {
				t.Errorf("want <%v>, got <%v>", test.want, got)
			}
		})
	}
}

func TestNewRegistry(t *testing.T) {
	registry := newRegistry()

	for _, name := range []string{"ceph_mgr", "samba"} {
		if _, ok := registry.Find(name); !ok {
			t.Errorf("plugin %q is not registered", name)
		}
	}
}

func TestPluginInfo(t *testing.T) {
	descriptor := plugin.Descriptor{
		Name:        "samba",
		Description: "Samba related information",
		Tags:        []plugin.Tag{plugin.TagRedHat, plugin.TagDebian},
		Packages:    []string{"samba-common"},
		Services:    []string{"smb.service"},
	}

	want := PluginInfo{
		Name:        "samba",
		Description: "Samba related information",
		Tags:        []string{"redhat", "debian"},
		Packages:    []string{"samba-common"},
		Services:    []string{"smb.service"},
	}
	if diff := cmp.Diff(want, pluginInfo(descriptor)); diff != "" {
		t.Errorf("plugin info mismatch (-want +got):\n%s", diff)
	}
}
