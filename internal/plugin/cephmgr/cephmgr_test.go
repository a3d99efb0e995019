package cephmgr

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/redhatinsights/hostdiag/internal/plugin"
	"github.com/redhatinsights/hostdiag/internal/probe"
)

type fakePackages struct {
	microceph probe.Presence
}

func (f fakePackages) Query(_ context.Context, name string) probe.Presence {
	if name == "microceph" {
		return f.microceph
	}
	return probe.Absent
}

type fakeProber struct {
	orch probe.Result
}

func (f fakeProber) Probe(_ context.Context, command string) probe.Result {
	if command == "ceph orch status" {
		return f.orch
	}
	return probe.Result{Presence: probe.Absent, Status: 1}
}

// runSetup executes the plugin's setup against fakes and returns the
// recorded plan.
func runSetup(t *testing.T, microceph probe.Presence, orch probe.Result, fsys fs.FS) *plugin.Plan {
	t.Helper()
	p := New()
	if fsys == nil {
		fsys = fstest.MapFS{}
	}
	p.dirFS = func(string) fs.FS { return fsys }

	c := plugin.NewContext(fakePackages{microceph: microceph}, fakeProber{orch: orch})
	if err := p.Setup(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c.Plan()
}

func commandsIn(plan *plugin.Plan, subdir string) []string {
	var commands []string
	for _, command := range plan.Commands {
		if command.Subdir == subdir && !strings.HasPrefix(command.Command, "ceph daemon ") {
			commands = append(commands, command.Command)
		}
	}
	return commands
}

func daemonCommandsIn(plan *plugin.Plan) []string {
	var commands []string
	for _, command := range plan.Commands {
		if strings.HasPrefix(command.Command, "ceph daemon ") {
			commands = append(commands, command.Command)
		}
	}
	return commands
}

func TestSetupStandardCeph(t *testing.T) {
	orchAbsent := probe.Result{Presence: probe.Absent, Status: 2}
	plan := runSetup(t, probe.Absent, orchAbsent, nil)

	wantForbidden := []string{
		"/etc/ceph/*keyring*",
		"/var/lib/ceph/**/*keyring*",
		"/var/lib/ceph/**/osd*",
		"/var/lib/ceph/**/mon*",
		"/var/lib/ceph/**/tmp/*mnt*",
		"/etc/ceph/*bindpass*",
	}
	if diff := cmp.Diff(wantForbidden, plan.ForbiddenPaths); diff != "" {
		t.Errorf("forbidden paths mismatch (-want +got):\n%s", diff)
	}
	for _, path := range plan.ForbiddenPaths {
		if strings.Contains(path, "microceph") {
			t.Errorf("standard variant must not forbid microceph path %q", path)
		}
	}

	wantCopySpecs := []string{
		"/var/log/ceph/**/ceph-mgr*.log",
		"/var/lib/ceph/**/mgr*",
		"/var/lib/ceph/**/bootstrap-mgr/",
		"/run/ceph/**/ceph-mgr*",
	}
	if diff := cmp.Diff(wantCopySpecs, plan.CopySpecs); diff != "" {
		t.Errorf("copy specs mismatch (-want +got):\n%s", diff)
	}

	wantTags := []plugin.FileTag{
		{Pattern: `/var/log/ceph/(.*/)?ceph-mgr.*.log`, Tag: "ceph_mgr_log"},
	}
	if diff := cmp.Diff(wantTags, plan.FileTags); diff != "" {
		t.Errorf("file tags mismatch (-want +got):\n%s", diff)
	}
}

func TestSetupMicroceph(t *testing.T) {
	orchAbsent := probe.Result{Presence: probe.Absent, Status: 2}
	plan := runSetup(t, probe.Present, orchAbsent, nil)

	wantCopySpecs := []string{"/var/snap/microceph/common/logs/ceph-mgr*.log"}
	if diff := cmp.Diff(wantCopySpecs, plan.CopySpecs); diff != "" {
		t.Errorf("copy specs mismatch (-want +got):\n%s", diff)
	}
	for _, spec := range plan.CopySpecs {
		if spec == "/var/lib/ceph/**/mgr*" {
			t.Errorf("microceph variant must not copy %q", spec)
		}
	}

	wantForbidden := []string{"/var/snap/microceph/common/**/*keyring*"}
	if diff := cmp.Diff(wantForbidden, plan.ForbiddenPaths); diff != "" {
		t.Errorf("forbidden paths mismatch (-want +got):\n%s", diff)
	}
}

func TestSetupDualFormatCommands(t *testing.T) {
	orchAbsent := probe.Result{Presence: probe.Absent, Status: 2}
	plan := runSetup(t, probe.Absent, orchAbsent, nil)

	plain := commandsIn(plan, "")
	wantPlain := make([]string, len(managerCommands))
	for i, command := range managerCommands {
		wantPlain[i] = "ceph " + command
	}
	if diff := cmp.Diff(wantPlain, plain); diff != "" {
		t.Errorf("plain commands mismatch (-want +got):\n%s", diff)
	}

	// The JSON set is exactly the plain set with the format flag
	// appended, issued in addition to the plain set.
	json := commandsIn(plan, "json_output")
	wantJSON := make([]string, len(plain))
	for i, command := range plain {
		wantJSON[i] = command + " --format json-pretty"
	}
	if diff := cmp.Diff(wantJSON, json); diff != "" {
		t.Errorf("json commands mismatch (-want +got):\n%s", diff)
	}
}

func TestSetupOrchestratorCommands(t *testing.T) {
	tests := []struct {
		description string
		orch        probe.Result
		want        bool
	}{
		{
			description: "probe exit zero appends orch commands",
			orch:        probe.Result{Presence: probe.Present, Status: 0},
			want:        true,
		},
		{
			description: "probe non-zero exit skips orch commands",
			orch:        probe.Result{Presence: probe.Absent, Status: 22},
			want:        false,
		},
		{
			description: "probe failure skips orch commands",
			orch:        probe.Result{Presence: probe.Indeterminate, Status: -1},
			want:        false,
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			plan := runSetup(t, probe.Absent, test.orch, nil)
			plain := commandsIn(plan, "")
			json := commandsIn(plan, "json_output")

			got := false
			for _, command := range plain {
				if strings.HasPrefix(command, "ceph orch ") {
					got = true
					break
				}
			}
			if got != test.want {
				t.Errorf("orchestrator commands present = %v, want %v", got, test.want)
			}

			wantCount := len(managerCommands)
			if test.want {
				wantCount += len(orchestratorCommands)
			}
			if len(plain) != wantCount {
				t.Errorf("got %d plain commands, want %d", len(plain), wantCount)
			}
			if len(json) != wantCount {
				t.Errorf("got %d json commands, want %d", len(json), wantCount)
			}
		})
	}
}

func TestSetupAdminSocketCommands(t *testing.T) {
	fsys := fstest.MapFS{
		"ceph-mgr.asok":   &fstest.MapFile{},
		"ceph-mgr.2.asok": &fstest.MapFile{},
		"other.asok":      &fstest.MapFile{},
	}
	orchAbsent := probe.Result{Presence: probe.Absent, Status: 2}
	plan := runSetup(t, probe.Absent, orchAbsent, fsys)

	daemon := daemonCommandsIn(plan)
	wantCount := 2 * len(daemonCommands)
	if len(daemon) != wantCount {
		t.Fatalf("got %d daemon commands, want %d", len(daemon), wantCount)
	}

	sockets := map[string]int{
		"/var/run/ceph/ceph-mgr.asok":   0,
		"/var/run/ceph/ceph-mgr.2.asok": 0,
	}
	for _, command := range daemon {
		matched := 0
		for socket := range sockets {
			if strings.Contains(command, socket+" ") {
				sockets[socket]++
				matched++
			}
		}
		if matched != 1 {
			t.Errorf("command %q must reference exactly one discovered socket", command)
		}
		if strings.Contains(command, "other.asok") {
			t.Errorf("command %q references a non-manager socket", command)
		}
	}
	for socket, count := range sockets {
		if count != len(daemonCommands) {
			t.Errorf("socket %s got %d commands, want %d", socket, count, len(daemonCommands))
		}
	}
}

func TestIsAdminSocket(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"ceph-mgr.asok", true},
		{"ceph-mgr.hostname.2.asok", true},
		{"other.asok", false},
		{"ceph-mgr.log", false},
	}

	for _, test := range tests {
		if got := isAdminSocket(test.name); got != test.want {
			t.Errorf("isAdminSocket(%q) = %v, want %v", test.name, got, test.want)
		}
	}
}
