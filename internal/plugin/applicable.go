package plugin

import (
	"context"
	"log/slog"
	"regexp"
)

// HostInfo carries the host facts and lookups applicability decisions are
// made from. The predicates are injectable so that Applicable stays a pure
// function in tests; a nil predicate answers false.
type HostInfo struct {
	// OSFamilies are the detected OS family tags of the host.
	OSFamilies []string
	// Containers are the names of running containers.
	Containers []string
	// PackageInstalled reports whether a package is installed.
	PackageInstalled func(ctx context.Context, name string) bool
	// PathGlobExists reports whether any path matches the given glob.
	PathGlobExists func(glob string) bool
	// ServiceActive reports whether a systemd unit is active.
	ServiceActive func(name string) bool
}

// Applicable reports whether the described plugin should run on the host.
// The OS family tags gate the plugin; within a matching family, any single
// trigger (package, file, container, service) activates it. A descriptor
// without triggers applies unconditionally.
func Applicable(ctx context.Context, d Descriptor, host HostInfo) bool {
	if len(d.Tags) > 0 && !tagsMatch(d.Tags, host.OSFamilies) {
		return false
	}

	if len(d.Packages)+len(d.Files)+len(d.Containers)+len(d.Services) == 0 {
		return true
	}

	if host.PackageInstalled != nil {
		for _, name := range d.Packages {
			if host.PackageInstalled(ctx, name) {
				return true
			}
		}
	}
	if host.PathGlobExists != nil {
		for _, glob := range d.Files {
			if host.PathGlobExists(glob) {
				return true
			}
		}
	}
	for _, pattern := range d.Containers {
		re, err := regexp.Compile(pattern)
		if err != nil {
			slog.Warn("invalid container trigger pattern",
				"plugin", d.Name, "pattern", pattern, "error", err)
			continue
		}
		for _, name := range host.Containers {
			if re.MatchString(name) {
				return true
			}
		}
	}
	if host.ServiceActive != nil {
		for _, unit := range d.Services {
			if host.ServiceActive(unit) {
				return true
			}
		}
	}

	return false
}

func tagsMatch(tags []Tag, families []string) bool {
	for _, tag := range tags {
		for _, family := range families {
			if string(tag) == family {
				return true
			}
		}
	}
	return false
}
