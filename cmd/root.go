package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/tvdeck/config"
	"github.com/s0up4200/tvdeck/display"
	"github.com/s0up4200/tvdeck/filter"
	"github.com/s0up4200/tvdeck/tvshows"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	client    *tvshows.Client
	compiler  *filter.Compiler
	formatter = display.NewConsoleFormatter()

	appVersion = "dev"
	appBuilt   = "unknown"

	// Global flags
	debug   bool
	baseURL string
	timeout time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tvdeck",
	Short: "A command line client for the TV show catalog API",
	Long: `tvdeck talks to a TV show catalog backend. It lists, filters and
manages shows and reports backend health, distributors and episode statistics.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// SetVersion records build information for the version flag
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuilt = buildTime
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log every request and response")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (default http://localhost:3000)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request timeout (default 10s)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(distributorsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(overviewCmd)
}

// initializeApp initializes the configuration and client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Command line flags override config
	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = debug
	}
	if flags.Changed("base-url") {
		cfg.API.BaseURL = baseURL
	}
	if flags.Changed("timeout") {
		cfg.API.Timeout = timeout
	}

	logger = setupLogger(cfg.Logging, cfg.Debug)
	logger.Debug().
		Str("version", appVersion).
		Str("built", appBuilt).
		Str("base_url", cfg.API.BaseURL).
		Dur("timeout", cfg.API.Timeout).
		Msg("Starting tvdeck")

	client, err = tvshows.NewClient(cfg.API.BaseURL, logger,
		tvshows.WithTimeout(cfg.API.Timeout),
		tvshows.WithDebug(cfg.Debug),
	)
	if err != nil {
		return fmt.Errorf("failed to create TV show client: %w", err)
	}

	compiler, err = filter.NewCompiler(filter.DefaultCacheSize)
	if err != nil {
		return err
	}

	// Compile presets up front so typos surface before any request is made
	for name, expression := range cfg.Filter.Presets {
		if _, err := compiler.Compile(expression); err != nil {
			logger.Warn().Err(err).Str("preset", name).Msg("Invalid filter preset")
		}
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, debugMode bool) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	if debugMode && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// printError writes err to stderr, using the report layout for request failures
func printError(err error) {
	var report *tvshows.ErrorReport
	if errors.As(err, &report) {
		url := config.DefaultBaseURL
		if client != nil {
			url = client.BaseURL()
		}
		fmt.Fprint(os.Stderr, formatter.FormatError(report, url))
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// loading prints msg on a terminal and returns a func that clears it
func loading(msg string) func() {
	if !isTerminal(os.Stderr) {
		return func() {}
	}
	fmt.Fprint(os.Stderr, msg)
	return func() {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
}
