package policy

import (
	"context"
	"strings"
)

// Container engines consulted for running container names, in order of
// preference. The first engine that answers wins.
var containerListCommands = []string{
	"podman ps --format {{.Names}}",
	"docker ps --format {{.Names}}",
}

// runningContainers returns the names of running containers, or nil when
// no container engine responds. A missing engine is not an error; hosts
// without containers are the common case.
func runningContainers(ctx context.Context, run CommandRunner) []string {
	if run == nil {
		return nil
	}
	for _, command := range containerListCommands {
		output, err := run.Run(ctx, command)
		if err != nil || output.Status != 0 {
			continue
		}
		return splitLines(output.Stdout)
	}
	return nil
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
