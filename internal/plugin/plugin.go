// Package plugin defines the contract between collection plugins and the
// report framework.
//
// A plugin is a self-contained declarative unit: its Descriptor states
// when it applies to a host, and its Setup method declares which files,
// forbidden paths, file tags and command outputs to gather. Plugins do not
// collect anything themselves; the declared plan is executed later by the
// archive step.
package plugin

import "context"

// Tag is an OS family capability tag a plugin declares support for.
type Tag string

const (
	TagRedHat Tag = "redhat"
	TagDebian Tag = "debian"
	TagUbuntu Tag = "ubuntu"
)

// Descriptor declares what a plugin is and the triggers that make it
// applicable to a host. Applicability is a pure function over the
// descriptor and the host facts, see Applicable.
type Descriptor struct {
	// Name is the unique identifier of the plugin.
	Name string
	// Description is a short human-readable description.
	Description string
	// Tags lists the OS families the plugin supports. An empty list
	// means the plugin applies to every family.
	Tags []Tag
	// Packages activates the plugin when any named package is installed.
	Packages []string
	// Profiles groups the plugin into named collection profiles.
	Profiles []string
	// Files activates the plugin when any path matching a glob exists.
	Files []string
	// Containers activates the plugin when a running container name
	// matches any of these regular expressions.
	Containers []string
	// Services activates the plugin when any named systemd unit is active.
	Services []string
}

// Plugin is one declarative collection unit.
type Plugin interface {
	Descriptor() Descriptor
	// Setup declares the plugin's collections on the given context. It is
	// invoked once per report run; the recorded plan does not outlive the
	// run. Capability-absent conditions, e.g. a missing optional package,
	// must degrade silently instead of returning an error.
	Setup(ctx context.Context, c *Context) error
}
