package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsync/internal/config"
)

// Global is bound into every command and hook.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

func (g *Global) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) stderr() io.Writer {
	if g.Stderr == nil {
		return os.Stderr
	}
	return g.Stderr
}

// CLI definition & global flags.
type CLI struct {
	Config   string           `short:"c" help:"Configuration file path (default: ${config_file} if present)"`
	Verbose  bool             `short:"v" help:"Enable verbose logging"`
	LogLevel string           `name:"log-level" help:"Log level (debug, info, warn, error); overrides ${log_level_env} and the config file"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Sync  SyncCmd  `cmd:"" default:"1" help:"Mirror the docs directory into the site content collection (default)"`
	Check CheckCmd `cmd:"" help:"Report which Markdown files a sync would rewrite, without writing"`
	Watch WatchCmd `cmd:"" help:"Sync, then re-sync whenever the docs directory changes"`
	Init  InitCmd  `cmd:"" help:"Write a configuration file with the defaults"`
}

// AfterApply runs after flag parsing; sets up logging until the config is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	c.setLogger(g, "", config.LogFormatText)
	return nil
}

func (c *CLI) setLogger(g *Global, configured string, format config.LogFormat) {
	if env := os.Getenv(config.LogLevelEnv); env != "" {
		configured = env
	}
	if c.LogLevel != "" {
		configured = c.LogLevel
	}
	level := config.NormalizeLogLevel(configured)

	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	if c.Verbose {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler = slog.NewTextHandler(g.stderr(), opts)
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(g.stderr(), opts)
	}
	g.Logger = slog.New(handler)
	slog.SetDefault(g.Logger)
}

// PathFlags are the command-line overrides shared by sync, check and watch.
type PathFlags struct {
	Source       string `short:"s" help:"Docs directory to mirror (default: ${default_source})"`
	Dest         string `short:"d" name:"dest" help:"Directory the docs are mirrored into (default: ${default_dest})"`
	ClearRoot    string `name:"clear-root" help:"Directory deleted before mirroring; must contain --dest (default: ${default_clear_root})"`
	DefaultTitle string `name:"default-title" help:"Title for documents without frontmatter or heading"`
	NFC          bool   `name:"nfc" help:"Normalize extracted titles to Unicode NFC"`
}

func (p PathFlags) overrides(root *CLI) config.Overrides {
	return config.Overrides{
		Source:       p.Source,
		Destination:  p.Dest,
		ClearRoot:    p.ClearRoot,
		DefaultTitle: p.DefaultTitle,
		UnicodeNFC:   p.NFC,
		LogLevel:     root.LogLevel,
	}
}

// loadConfig loads the configuration file (or the defaults), applies the
// command-line overrides and reconfigures logging from the result.
func loadConfig(g *Global, root *CLI, flags PathFlags) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(root.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(flags.overrides(root)); err != nil {
		return nil, err
	}
	root.setLogger(g, cfg.Logging.Level, config.NormalizeLogFormat(cfg.Logging.Format))
	return cfg, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Vars are the kong interpolation variables used in help texts.
func Vars(version string) kong.Vars {
	return kong.Vars{
		"version":            version,
		"config_file":        config.DefaultConfigFile,
		"log_level_env":      config.LogLevelEnv,
		"default_source":     config.DefaultSource,
		"default_dest":       config.DefaultDestination,
		"default_clear_root": config.DefaultClearRoot,
	}
}
