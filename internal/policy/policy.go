// Package policy determines the facts about the running host that decide
// which collection plugins apply: the distribution family, the kernel,
// installed packages and running containers.
package policy

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"

	"github.com/redhatinsights/hostdiag/internal/runner"
)

// CommandRunner is the subset of the command runner the policy needs.
type CommandRunner interface {
	Run(ctx context.Context, command string) (runner.Output, error)
}

// Facts describes the host a report run collects from. Facts are gathered
// once per run and recorded in the report manifest.
type Facts struct {
	Hostname      string   `json:"hostname"`
	OSFamilies    []string `json:"os_families,omitempty"`
	KernelRelease string   `json:"kernel_release,omitempty"`
	Machine       string   `json:"machine,omitempty"`
	Containers    []string `json:"containers,omitempty"`
}

// CollectFacts gathers host facts. Individual lookups degrade to empty
// values rather than failing the run; a support report from a host with a
// broken container engine is still a useful report.
func CollectFacts(ctx context.Context, run CommandRunner) Facts {
	var facts Facts

	hostname, err := os.Hostname()
	if err != nil {
		slog.Warn("failed to determine hostname", "error", err)
	}
	facts.Hostname = hostname

	file, err := os.Open(osReleasePath)
	if err != nil {
		slog.Debug("failed to open os-release file", "path", osReleasePath, "error", err)
	} else {
		facts.OSFamilies = familiesFrom(parseOSRelease(file))
		if closeErr := file.Close(); closeErr != nil {
			slog.Debug("failed to close os-release file", "error", closeErr)
		}
	}

	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		slog.Debug("uname failed", "error", err)
	} else {
		facts.KernelRelease = unix.ByteSliceToString(uts.Release[:])
		facts.Machine = unix.ByteSliceToString(uts.Machine[:])
	}

	facts.Containers = runningContainers(ctx, run)

	return facts
}
