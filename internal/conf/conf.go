package conf

import "log/slog"

type Conf struct {
	LogLevel slog.Level `toml:"log-level"`
	// OutputDir is the directory the final report archive is written to.
	OutputDir string `toml:"output-dir"`
	// CommandTimeout bounds a single collection command, in seconds.
	CommandTimeout int `toml:"command-timeout"`
	// Plugins restricts report runs to the named plugins. Empty means all.
	Plugins []string `toml:"plugins"`
}

var Config = Conf{}
