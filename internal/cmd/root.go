// Package cmd provides the gantry command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/gantry/internal/app"
	"github.com/five82/gantry/internal/config"
	"github.com/five82/gantry/internal/logging"
	"github.com/five82/gantry/internal/pharos"
)

// interactiveAnnotation marks commands that own the terminal. They log to
// the log file only.
const interactiveAnnotation = "gantry/interactive"

// version is stamped at build time with -ldflags "-X ...cmd.version=...".
var version = "dev"

// cli carries flag values and the loaded configuration between the root
// command and its children.
type cli struct {
	configPath  string
	logLevel    string
	host        string
	user        string
	personality string

	cfg    config.Config
	stdout io.Writer
	stderr io.Writer

	// sessionOpts are appended to the options derived from the config.
	sessionOpts []pharos.Option
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return execute(ctx, NewRootCmd())
}

// execute closes the log file however the command ends; cobra skips
// post-run hooks when RunE fails.
func execute(ctx context.Context, root *cobra.Command) error {
	defer func() { _ = logging.Close() }()
	return root.ExecuteContext(ctx)
}

// NewRootCmd builds the command tree writing to the process streams.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&cli{stdout: os.Stdout, stderr: os.Stderr})
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:     "gantry",
		Version: version,
		Short:   "gantry - console and CLI for Pharos lighting controllers",
		Long: `gantry talks to the HTTP control API of a Pharos Designer or Expert
controller. Run without a subcommand to open the interactive console, or use
the resource commands to list and control timelines, groups, spaces, scenes
and triggers from scripts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{interactiveAnnotation: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConsole(cmd)
		},
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "Config file path (default ~/.config/gantry/config.toml)")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&c.host, "host", "", "Controller IPv4 address, overrides the config file")
	flags.StringVarP(&c.user, "user", "u", "", "Controller username, overrides the config file")
	flags.StringVar(&c.personality, "personality", "", "Controller personality: generic, designer or expert")

	root.AddCommand(
		newConsoleCmd(c),
		newLoginCmd(c),
		newTimelineCmd(c),
		newGroupCmd(c),
		newSpaceCmd(c),
		newSceneCmd(c),
		newTriggerCmd(c),
	)
	return root
}

// setup loads the configuration, applies flag overrides and initializes
// logging. Interactive commands log to the file; the others log to stderr.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.host != "" {
		cfg.Host = strings.TrimSpace(c.host)
	}
	if c.user != "" {
		cfg.Username = c.user
	}
	if c.personality != "" {
		cfg.Personality = strings.ToLower(strings.TrimSpace(c.personality))
	}
	if c.logLevel != "" {
		cfg.LogLevel = strings.ToLower(c.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.sessionOpts = append([]pharos.Option{pharos.WithUserAgent(userAgent())}, c.sessionOpts...)

	logCfg := logging.Config{
		Level:      cfg.LogLevel,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Compress:   cfg.LogCompress,
		JSON:       cfg.LogJSON,
	}
	if isInteractive(cmd) {
		logCfg.File = cfg.LogFile
	} else {
		logCfg.Console = c.stderr
		if c.logLevel == "" {
			logCfg.Level = "warn"
		}
	}
	if err := logging.Initialize(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

func userAgent() string {
	return "gantry/" + version
}

func isInteractive(cmd *cobra.Command) bool {
	return cmd.Annotations[interactiveAnnotation] == "true"
}

// withController authenticates, runs fn and logs out.
func (c *cli) withController(cmd *cobra.Command, fn func(context.Context, *app.Controller) error) error {
	if c.cfg.Host == "" {
		return fmt.Errorf("no controller host: set host in %s or pass --host", c.configFile())
	}
	return app.WithController(cmd.Context(), c.cfg, fn, c.sessionOpts...)
}

// require fails before any request when the configured personality lacks r.
func (c *cli) require(r pharos.Resource) error {
	p, err := pharos.ParsePersonality(c.cfg.Personality)
	if err != nil {
		return err
	}
	if !p.Supports(r) {
		return fmt.Errorf("%s on %s controller: %w", r, p, app.ErrUnsupported)
	}
	return nil
}

func (c *cli) configFile() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.DefaultPath()
}
