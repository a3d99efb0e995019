package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/subpop/go-log"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"

	"github.com/redhatinsights/hostdiag/internal/conf"
	"github.com/redhatinsights/hostdiag/internal/ui"
)

const (
	cliLogLevel       = "log-level"
	cliOutputDir      = "output-dir"
	cliCommandTimeout = "command-timeout"
	cliPlugins        = "plugins"
)

// mainAction is triggered in the case, when no sub-command is specified
func mainAction(c *cli.Context) error {
	type GenerationFunc func() (string, error)
	var generationFunc GenerationFunc
	if c.Bool("generate-man-page") {
		generationFunc = c.App.ToMan
	} else if c.Bool("generate-markdown") {
		generationFunc = c.App.ToMarkdown
	} else {
		cli.ShowAppHelpAndExit(c, ExitCodeOK)
	}
	data, err := generationFunc()
	if err != nil {
		return cli.Exit(err, ExitCodeErr)
	}
	fmt.Println(data)
	return nil
}

// beforeAction is triggered before other actions are triggered
func beforeAction(c *cli.Context) error {
	/* Load the configuration values from the config file specified */
	filePath := c.String("config")
	if filePath != "" {
		inputSource, err := altsrc.NewTomlSourceFromFile(filePath)
		if err != nil {
			return err
		}
		if err := altsrc.ApplyInputSourceValues(c, inputSource, c.App.Flags); err != nil {
			return err
		}
	}

	level, err := log.ParseLevel(c.String(cliLogLevel))
	if err != nil {
		return cli.Exit(err, ExitCodeConfig)
	}
	log.SetLevel(level)

	conf.Config = conf.Conf{
		LogLevel:       slogLevel(level),
		OutputDir:      c.String(cliOutputDir),
		CommandTimeout: c.Int(cliCommandTimeout),
		Plugins:        c.StringSlice(cliPlugins),
	}

	if err := setupLogging(conf.Config.LogLevel); err != nil {
		return cli.Exit(err, ExitCodeErr)
	}

	// When environment variable NO_COLOR or --no-color CLI option is set,
	// then do not display colors and animations. When the output does not
	// go to a terminal, colors and animations are suppressed as well.
	if !isTerminal(os.Stdout.Fd()) {
		if err := c.Set("no-color", "true"); err != nil {
			log.Debug("Unable to set no-color flag to \"true\"")
		}
	}

	ui.ConfigureOutput(isTerminal(os.Stdout.Fd()), !c.Bool("no-color"), false)

	return nil
}

// slogLevel maps the configured log level to the structured logging level
// used by the collection packages.
func slogLevel(level log.Level) slog.Level {
	switch level {
	case log.LevelTrace, log.LevelDebug:
		return slog.LevelDebug
	case log.LevelInfo:
		return slog.LevelInfo
	case log.LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func main() {
	app := cli.NewApp()
	app.Name = ShortName
	app.Version = Version
	app.Usage = "collect diagnostic data from the system"
	app.Description = "The " + app.Name + " command collects configuration files, log files " +
		"and command output from the system and packs them into an archive for support analysis.\n\n" +
		"To collect a report:\n" +
		"\t" + app.Name + " report\n\n" +
		"To collect only selected plugins:\n" +
		"\t" + app.Name + " report --plugin samba\n\n" +
		"Run '" + app.Name + " command --help' for more details."

	log.SetFlags(0)
	log.SetPrefix("")

	defaultConfigFilePath, err := ConfigPath()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:   "generate-man-page",
			Hidden: true,
		},
		&cli.BoolFlag{
			Name:   "generate-markdown",
			Hidden: true,
		},
		&cli.BoolFlag{
			Name:    "no-color",
			Hidden:  false,
			Value:   false,
			EnvVars: []string{"NO_COLOR"},
		},
		&cli.StringFlag{
			Name:      "config",
			Hidden:    true,
			Value:     defaultConfigFilePath,
			TakesFile: true,
			Usage:     "Read config values from `FILE`",
		},
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:   cliLogLevel,
			Value:  "info",
			Hidden: true,
			Usage:  "Set the logging output level to `LEVEL`",
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:  cliOutputDir,
			Value: ".",
			Usage: "Write the report archive to `DIR`",
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:   cliCommandTimeout,
			Value:  300,
			Hidden: true,
			Usage:  "Stop a single collection command after `SECONDS`",
		}),
		altsrc.NewStringSliceFlag(&cli.StringSliceFlag{
			Name:   cliPlugins,
			Hidden: true,
			Usage:  "Restrict report runs to `PLUGINS`",
		}),
	}

	app.Commands = []*cli.Command{
		reportCommand(app.Name),
		pluginsCommand(app.Name),
		schemaCommand(app.Name),
	}
	app.EnableBashCompletion = true
	app.BashComplete = BashComplete
	app.Action = mainAction
	app.Before = beforeAction

	if err := app.Run(os.Args); err != nil {
		log.Error(err)
	}
}
