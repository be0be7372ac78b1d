package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stage/internal/config"
)

var flagConfigFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the search order and the global flags have
been applied. The output can be saved as ~/.stage/config.yaml (or .toml) and
edited.

Examples:
  stage config
  stage config --format toml > ~/.stage/config.toml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagConfigFormat, "format", "yaml", "Output format: yaml or toml")
}

func runConfig(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	var format config.Format
	switch flagConfigFormat {
	case "yaml", "yml":
		format = config.FormatYAML
	case "toml":
		format = config.FormatTOML
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (want yaml or toml)\n", flagConfigFormat)
		os.Exit(1)
	}

	data, err := config.Encode(cfg, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "# source: %s\n", cfg.Source)
	os.Stdout.Write(data)
}
