// Package probe provides typed capability detection for collection plugins.
//
// Plugins frequently need to know whether an optional feature is available
// before declaring collections that depend on it, for example whether the
// Ceph orchestrator is configured on a manager node. Probes answer such
// questions by running a command and mapping its outcome to a tri-state
// Presence value, so that callers branch on an explicit enum instead of a
// raw exit code and tests can inject a fake prober instead of shelling out.
package probe

import (
	"context"
	"log/slog"

	"github.com/redhatinsights/hostdiag/internal/runner"
)

// Presence is the outcome of a capability probe.
type Presence int

const (
	// Indeterminate means the probe could not be executed at all.
	Indeterminate Presence = iota
	// Absent means the probe executed and reported the capability missing.
	Absent
	// Present means the probe confirmed the capability.
	Present
)

func (p Presence) String() string {
	switch p {
	case Present:
		return "present"
	case Absent:
		return "absent"
	default:
		return "indeterminate"
	}
}

// Result holds the outcome of a single probe execution.
type Result struct {
	Presence Presence
	// Status is the exit status of the probe command. It is -1 when
	// Presence is Indeterminate.
	Status int
	// Output is the standard output of the probe command.
	Output string
}

// Prober answers capability questions.
type Prober interface {
	Probe(ctx context.Context, command string) Result
}

// CommandRunner is the subset of the command runner a prober needs.
type CommandRunner interface {
	Run(ctx context.Context, command string) (runner.Output, error)
}

// ExecProber probes by running commands on the host. A command that exits
// zero reports the capability present, a non-zero exit reports it absent,
// and a command that cannot be run at all reports indeterminate.
type ExecProber struct {
	Runner CommandRunner
}

func (p ExecProber) Probe(ctx context.Context, command string) Result {
	output, err := p.Runner.Run(ctx, command)
	if err != nil {
		slog.Debug("probe command could not be run", "command", command, "error", err)
		return Result{Presence: Indeterminate, Status: -1}
	}
	presence := Absent
	if output.Status == 0 {
		presence = Present
	}
	return Result{Presence: presence, Status: output.Status, Output: output.Stdout}
}
