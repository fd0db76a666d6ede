package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mj1618/hintnav/internal/config"
	"github.com/mj1618/hintnav/internal/output"
	"github.com/mj1618/hintnav/internal/version"
)

// defaultConfigFile is read from the working directory when present.
const defaultConfigFile = "hintnav.yaml"

var (
	cfg    *config.Config
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "hintnav",
	Short: "Keyboard hint navigation for web-based desktop clients",
	Long: `hintnav labels every actionable element of a page with a short key
sequence. Typing a label activates its element, even when another layer
sits on top of it.

It attaches to a running client over the Chrome DevTools Protocol, or loads
an HTML fixture for offline use.`,
	SilenceUsage: true,
}

// Execute runs the root command, cancelling its context on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)

	addRootFlags(rootCmd.PersistentFlags())

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		cfg = c
		logger = cfg.Log.NewLogger(os.Stderr)
		slog.SetDefault(logger)

		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}

func addRootFlags(pf *pflag.FlagSet) {
	pf.String("config", "", "Config file (default $"+config.EnvConfig+", else ./"+defaultConfigFile+" if present)")
	pf.String("backend", "", "Document backend: cdp, fixture")
	pf.String("cdp-url", "", "DevTools endpoint, http(s):// or ws://")
	pf.String("page", "", "Attach to the first page whose URL or title contains this")
	pf.String("fixture", "", "HTML file to load (implies --backend fixture)")
	pf.String("viewport", "", "Fixture viewport as WIDTHxHEIGHT")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("format", "yaml", "Output format: yaml, json")
	pf.Bool("pretty", false, "Pretty-print JSON output")
}

// loadConfig reads the config file, then layers the environment and the
// flags the user set on top of it.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	path, _ := flags.GetString("config")
	optional := false
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	if path == "" {
		path, optional = defaultConfigFile, true
	}
	c, err := config.LoadOrDefault(path, optional)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()

	if flags.Changed("fixture") {
		c.Backend.FixturePath, _ = flags.GetString("fixture")
		c.Backend.Name = config.BackendFixture
	}
	if flags.Changed("backend") {
		c.Backend.Name, _ = flags.GetString("backend")
	}
	if flags.Changed("cdp-url") {
		c.Backend.CDPURL, _ = flags.GetString("cdp-url")
	}
	if flags.Changed("page") {
		c.Backend.PageMatch, _ = flags.GetString("page")
	}
	if flags.Changed("viewport") {
		c.Backend.Viewport, _ = flags.GetString("viewport")
	}
	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		if err := c.Log.Level.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// errActivationFailed makes a command exit non-zero after it has printed
// its own report.
var errActivationFailed = errors.New("activation failed")
