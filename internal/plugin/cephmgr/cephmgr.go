// Package cephmgr collects diagnostic data from Ceph manager nodes.
//
// The plugin activates when manager data files exist on the host or when
// manager-named containers are running, but the commands themselves run
// directly on the host: manager containers are often not configured to run
// the `ceph` commands collected here. Most daemon collections address
// admin sockets discovered under /var/run/ceph, or under the snap data
// directory on microceph installations.
//
// Several collections appear twice in the archive: once as standard `ceph`
// command output and again in JSON format under the json_output/
// subdirectory. The JSON copies are intended for automated analysis.
package cephmgr

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/redhatinsights/hostdiag/internal/plugin"
	"github.com/redhatinsights/hostdiag/internal/probe"
)

const (
	standardSocketDir = "/var/run/ceph"
	microcephDir      = "/var/snap/microceph"

	socketPrefix = "ceph-mgr"
	socketSuffix = ".asok"
)

// managerCommands are collected through `ceph`, in plain form and again
// with JSON output.
var managerCommands = []string{
	"balancer status",
	"healthcheck history ls",
	"log last cephadm",
	"mgr dump",
	"mgr metadata",
	"mgr module ls",
	"mgr stat",
	"mgr versions",
}

// orchestratorCommands are appended only when the orchestrator probe
// confirms an orchestrator is configured.
var orchestratorCommands = []string{
	"orch host ls",
	"orch device ls",
	"orch ls",
	"orch ls --export",
	"orch ps",
	"orch status --detail",
	"orch upgrade status",
}

// daemonCommands are issued per discovered admin socket through
// `ceph daemon`.
var daemonCommands = []string{
	"config diff",
	"config show",
	"counter dump",
	"counter schema",
	"dump_cache",
	"dump_mempools",
	"dump_osd_network",
	"mds_requests",
	"mds_sessions",
	"objecter_requests",
	"perf dump",
	"perf histogram dump",
	"perf histogram schema",
	"perf schema",
	"status",
	"version",
}

type Plugin struct {
	// dirFS opens the admin socket scan root; replaced in tests.
	dirFS func(dir string) fs.FS
}

func New() *Plugin {
	return &Plugin{dirFS: os.DirFS}
}

func (*Plugin) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		Name:        "ceph_mgr",
		Description: "CEPH mgr",
		Tags:        []plugin.Tag{plugin.TagRedHat, plugin.TagUbuntu},
		Profiles:    []string{"storage", "virt", "container", "ceph"},
		Files: []string{
			"/var/lib/ceph/mgr/*",
			"/var/lib/ceph/*/mgr*",
			"/var/snap/microceph/common/data/mgr/*",
		},
		Containers: []string{"ceph-(.*-)?mgr.*"},
	}
}

func (p *Plugin) Setup(ctx context.Context, c *plugin.Context) error {
	microceph := c.Package(ctx, "microceph")

	mgrCommands := slices.Clone(managerCommands)
	// Orchestrator collections only make sense when an orchestrator is
	// configured. A failed probe means the feature is absent, not an
	// error.
	if c.ExecCmd(ctx, "ceph orch status").Presence == probe.Present {
		mgrCommands = append(mgrCommands, orchestratorCommands...)
	}

	var socketDir string
	if microceph == probe.Present {
		socketDir = microcephDir
		c.AddFileTags(map[string]string{
			`/var/snap/microceph/common/logs/ceph-mgr.*.log`: "ceph_mgr_log",
		})
		c.AddForbiddenPath(
			"/var/snap/microceph/common/**/*keyring*",
		)
		c.AddCopySpec(
			"/var/snap/microceph/common/logs/ceph-mgr*.log",
		)
	} else {
		socketDir = standardSocketDir
		c.AddFileTags(map[string]string{
			`/var/log/ceph/(.*/)?ceph-mgr.*.log`: "ceph_mgr_log",
		})
		c.AddForbiddenPath(
			"/etc/ceph/*keyring*",
			"/var/lib/ceph/**/*keyring*",
			"/var/lib/ceph/**/osd*",
			"/var/lib/ceph/**/mon*",
			// Temporary ceph-osd mount locations like
			// /var/lib/ceph/tmp/mnt.XXXX must never be collected.
			"/var/lib/ceph/**/tmp/*mnt*",
			"/etc/ceph/*bindpass*",
		)
		c.AddCopySpec(
			"/var/log/ceph/**/ceph-mgr*.log",
			"/var/lib/ceph/**/mgr*",
			"/var/lib/ceph/**/bootstrap-mgr/",
			"/run/ceph/**/ceph-mgr*",
		)
	}

	for _, command := range mgrCommands {
		c.AddCmdOutput("ceph " + command)
	}

	// The same set again as JSON for easier automated parsing.
	jsonCommands := make([]string, len(mgrCommands))
	for i, command := range mgrCommands {
		jsonCommands[i] = "ceph " + command + " --format json-pretty"
	}
	c.AddCmdOutputSubdir("json_output", jsonCommands...)

	for _, socket := range p.adminSockets(c, socketDir) {
		for _, command := range daemonCommands {
			c.AddCmdOutput(fmt.Sprintf("ceph daemon %s %s", socket, command))
		}
	}

	return nil
}

// adminSockets finds the admin sockets under dir which daemon commands can
// address. Later Ceph versions place sockets in per-cluster
// subdirectories, so the whole tree is scanned.
func (p *Plugin) adminSockets(c *plugin.Context, dir string) []string {
	var sockets []string
	for path := range plugin.ScanFiles(p.dirFS(dir), isAdminSocket) {
		sockets = append(sockets, c.PathJoin(dir, filepath.FromSlash(path)))
	}
	return sockets
}

func isAdminSocket(name string) bool {
	return strings.HasPrefix(name, socketPrefix) && strings.HasSuffix(name, socketSuffix)
}
