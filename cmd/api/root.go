package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "meeting-insights",
	Short: "Meeting transcription and insights API",
	Long: `Meeting Insights turns Zoom meeting recordings into diarized transcripts,
provider summaries and generated meeting insights.

Commands:
  serve     - run the HTTP API and the transcription workers
  migrate   - manage the database schema
  meetings  - register meetings for local runs
  token     - issue a bearer token for local runs`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); defaults by environment")
}

// loadConfig loads the configuration when a command needs it
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds a development logger in development and a production
// logger everywhere else
func newLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		zcfg.Level = lvl
	}

	return zcfg.Build()
}
