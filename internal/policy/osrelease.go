package policy

import (
	"bufio"
	"io"
	"strings"
)

const osReleasePath = "/etc/os-release"

// parseOSRelease reads os-release(5) formatted content into a key/value
// map. Comments and malformed lines are skipped.
func parseOSRelease(r io.Reader) map[string]string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		value = strings.Trim(value, `"'`)
		fields[strings.TrimSpace(key)] = value
	}
	return fields
}

// familiesFrom maps the ID and ID_LIKE tokens of an os-release map to the
// OS family tags plugins declare. Unknown tokens are dropped.
func familiesFrom(fields map[string]string) []string {
	tokens := strings.Fields(fields["ID_LIKE"])
	if id := fields["ID"]; id != "" {
		tokens = append([]string{id}, tokens...)
	}

	var families []string
	seen := make(map[string]bool)
	add := func(family string) {
		if !seen[family] {
			seen[family] = true
			families = append(families, family)
		}
	}
	for _, token := range tokens {
		switch token {
		case "rhel", "fedora", "centos", "rocky", "almalinux":
			add("redhat")
		case "debian":
			add("debian")
		case "ubuntu":
			add("ubuntu")
		}
	}
	return families
}
