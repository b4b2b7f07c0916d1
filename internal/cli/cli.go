package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/scopeplot/pkg/buildinfo"
	"github.com/matzehuels/scopeplot/pkg/config"
	"github.com/matzehuels/scopeplot/pkg/plot"
	"github.com/matzehuels/scopeplot/pkg/signal"
	"github.com/matzehuels/scopeplot/pkg/store"
	"github.com/matzehuels/scopeplot/pkg/window"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "scopeplot"

	formatSVG  = "svg"
	formatPNG  = "png"
	formatJSON = "json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Scopeplot is a live oscilloscope for streamed samples",
		Long:         `Scopeplot plots multi-channel sample streams the way an oscilloscope does: free-running, buffered, sweeping or scrolling, with coupled cursors for measurements.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "session file (default: $XDG_CONFIG_HOME/scopeplot/scopeplot.toml)")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cursorsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Session Factory
// =============================================================================

// sessionFlags override config values from the command line.
type sessionFlags struct {
	mode     string
	channels int
	delta    float64
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "window mode: free, buffer, cursor or screen")
	cmd.Flags().IntVar(&f.channels, "channels", 0, "number of channels")
	cmd.Flags().Float64Var(&f.delta, "delta", 0, "x distance between samples")
}

func (f sessionFlags) apply(cfg *config.Config) error {
	if f.mode != "" {
		m, err := window.ParseMode(f.mode)
		if err != nil {
			return err
		}
		cfg.Mode = m
	}
	if f.channels > 0 {
		cfg.Channels = f.channels
	}
	if f.delta > 0 {
		cfg.Delta = f.delta
	}
	return cfg.Validate()
}

// loadConfig reads the session file named by --config.
func (c *CLI) loadConfig(flags *sessionFlags) (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if flags != nil {
		if err := flags.apply(&cfg); err != nil {
			return cfg, err
		}
	}
	c.Logger.Debug("config loaded", "mode", cfg.Mode, "channels", cfg.Channels, "delta", cfg.Delta)
	return cfg, nil
}

// newSession builds a session and its producer from cfg. Configured cursors
// are restored into the session.
func (c *CLI) newSession(cfg config.Config) (*plot.Session, *signal.Generator, error) {
	opts := cfg.SessionOptions()
	opts.Logger = c.Logger
	sess, err := plot.New(opts)
	if err != nil {
		return nil, nil, err
	}
	if len(cfg.Cursors) > 0 {
		if err := sess.RestoreCursors(cfg.Layout()); err != nil {
			return nil, nil, err
		}
	}
	gen, err := signal.New(append(cfg.GeneratorOptions(), signal.WithLogger(c.Logger))...)
	if err != nil {
		return nil, nil, err
	}
	return sess, gen, nil
}

// openStore connects to the layout store, honouring a --store override.
func (c *CLI) openStore(ctx context.Context, cfg config.Config, backend string) (store.Store, error) {
	if backend == "" {
		backend = cfg.Store.Backend
	}
	return store.Open(ctx, store.Options{
		Backend:  backend,
		Dir:      cfg.Store.Dir,
		RedisURL: cfg.Store.RedisURL,
		MongoURI: cfg.Store.MongoURI,
		Database: cfg.Store.Database,
		Logger:   c.Logger,
	})
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}
