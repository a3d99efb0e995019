package policy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redhatinsights/hostdiag/internal/probe"
)

// PackageManager looks up installed packages with the distribution's
// native tooling. Snap queries are always included because snap-packaged
// software, e.g. microceph, is invisible to both rpm and dpkg.
type PackageManager struct {
	run     CommandRunner
	queries []string
}

// NewPackageManager selects the query commands matching the host's OS
// families.
func NewPackageManager(families []string, run CommandRunner) *PackageManager {
	var queries []string
	for _, family := range families {
		switch family {
		case "redhat":
			queries = append(queries, "rpm -q %s")
		case "debian", "ubuntu":
			queries = append(queries, "dpkg-query -W %s")
		}
	}
	if len(queries) == 0 {
		// Unknown distribution, try both before giving up.
		queries = append(queries, "rpm -q %s", "dpkg-query -W %s")
	}
	queries = append(queries, "snap list %s")
	return &PackageManager{run: run, queries: dedupe(queries)}
}

// Query reports whether the named package is installed. It returns
// Indeterminate only when no package manager could be consulted at all.
func (m *PackageManager) Query(ctx context.Context, name string) probe.Presence {
	answered := false
	for _, query := range m.queries {
		output, err := m.run.Run(ctx, fmt.Sprintf(query, name))
		if err != nil {
			slog.Debug("package lookup could not be run", "package", name, "error", err)
			continue
		}
		answered = true
		if output.Status == 0 {
			return probe.Present
		}
	}
	if !answered {
		return probe.Indeterminate
	}
	return probe.Absent
}

func dedupe(values []string) []string {
	var result []string
	seen := make(map[string]bool)
	for _, value := range values {
		if !seen[value] {
			seen[value] = true
			result = append(result, value)
		}
	}
	return result
}
