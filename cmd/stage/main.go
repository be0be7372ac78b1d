// stage runs small interactive apps on a terminal-backed rendering stage.
//
// Usage:
//
//	stage list              - List available apps
//	stage run <app>         - Run an app
//	stage keys              - Show the terminal key table
//	stage scores <app>      - Show high scores for an app
//	stage runs              - Show recent runs
//	stage serve             - Start SSH server for remote sessions
//	stage config            - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Configuration file (YAML or TOML)
//	--fps <rate>        - Set tick rate (default: from config, 60)
//	--db <path>         - Set database path (default: ~/.stage/stage.db)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import apps to register them
	_ "github.com/vovakirdan/tui-stage/internal/apps/flappy"
	_ "github.com/vovakirdan/tui-stage/internal/apps/inspect"

	"github.com/vovakirdan/tui-stage/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagFPS      int
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stage",
	Short: "TUI Stage - run interactive apps in your terminal",
	Long: `TUI Stage runs small interactive apps on a software-rendered stage
that is drawn into your terminal with half-block characters.

Available commands:
  list     - Show all available apps
  run      - Run a specific app
  keys     - Show the terminal key table
  scores   - View high scores
  runs     - View recent runs
  serve    - Start SSH server for remote sessions
  config   - Print the effective configuration

Examples:
  stage list
  stage run flappy
  stage run inspect --debug-input
  stage run flappy --headless --frames 600
  stage serve --ssh :2222
  stage scores flappy`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration file (YAML or TOML)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (frames per second, 0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the stage database (empty = from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the configuration and applies the global flags on top.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if flagFPS > 0 {
		cfg.Frame.TickRate = flagFPS
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger returns a logger writing to w at the configured level.
func newLogger(cfg config.Config, w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           cfg.LogLevel(),
	})
}
