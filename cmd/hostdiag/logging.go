package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
	slogjournal "github.com/systemd/slog-journal"
)

// setupLogging configures slog to write to the systemd journal when one is
// available. This allows detailed logging while keeping the CLI output
// clean and user-friendly. Without a journal, e.g. inside a container,
// logs go to stderr instead.
func setupLogging(level slog.Level) error {
	if !journal.Enabled() {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))
		return nil
	}

	// The syslog identifier "hostdiag" allows filtering with:
	// journalctl -t hostdiag
	handler, err := slogjournal.NewHandler(&slogjournal.Options{
		Level: level,
		ReplaceGroup: func(k string) string {
			return strings.ReplaceAll(strings.ToUpper(k), "-", "_")
		},
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			a.Key = strings.ReplaceAll(strings.ToUpper(a.Key), "-", "_")
			return a
		},
	})
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(handler))
	return nil
}
