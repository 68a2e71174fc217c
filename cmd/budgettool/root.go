package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"budgettool/internal/config"
	"budgettool/internal/logger"
	"budgettool/internal/remote"
)

var (
	flagAPIURL string
	flagYear   int
)

var rootCmd = &cobra.Command{
	Use:           "budgettool",
	Short:         "Track vendor budgets and charges",
	Long:          "Create vendors, set annual budgets per category and log dated charges against them.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

// Execute runs the root command.
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "API base URL (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagYear, "year", 0, "Budget year (default: config or current year)")
}

// setup loads the client config, points the logger at the log file and
// builds the API client.
func setup() (config.ClientConfig, *remote.Client, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return cfg, nil, err
	}
	if flagAPIURL != "" {
		cfg.API.BaseURL = flagAPIURL
	}
	if flagYear > 0 {
		cfg.Budgets.Year = flagYear
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogPath()), 0o700); err != nil {
		return cfg, nil, fmt.Errorf("creating log dir: %w", err)
	}
	if err := logger.InitFile(cfg.LogPath()); err != nil {
		return cfg, nil, fmt.Errorf("opening log file: %w", err)
	}

	client := remote.NewClient(cfg.API.BaseURL,
		remote.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
		remote.WithSessionFile(config.SessionPath()),
	)
	return cfg, client, nil
}
