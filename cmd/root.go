// Package cmd implements the Reel command line using Cobra.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hbomb79/Reel/internal"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var log = logger.Get("Reel")

var (
	flagConfigPath string
	flagLogLevel   string
	flagEnvFile    string
)

var rootCmd = &cobra.Command{
	Use:   "reel",
	Short: "Fetch online media on demand and hand it out once",
	Long: `Reel is an HTTP service which resolves media metadata with yt-dlp,
downloads media at a requested quality in to a transient store and serves each
downloaded file exactly once before removing it.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables Reel reads its configuration from",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), internal.Usage())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigPath, "config", "c", "", "Path to a TOML or YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Minimum log level: verbose | debug | info | warning | error")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Environment file to load before reading configuration")

	rootCmd.AddCommand(envCmd)
}

// Execute runs the root command until the context is cancelled.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func run(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(flagEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", flagEnvFile, err)
	}

	config, err := internal.LoadConfig(flagConfigPath)
	if err != nil {
		return err
	}

	if flagLogLevel != "" {
		config.LogLevel = flagLogLevel
	}

	level, err := logger.ParseLevel(config.LogLevel)
	if err != nil {
		return err
	}
	logger.SetMinLoggingLevel(level.Level())

	reel, err := internal.New(*config)
	if err != nil {
		return err
	}

	log.Emit(logger.INFO, "Starting Reel\n")
	return reel.Run(cmd.Context())
}
