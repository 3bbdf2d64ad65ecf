package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/acsign/config"
)

var version = "dev"

var configFiles []string

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "acs-mock",
	Short:   "Mock ACS3-HMAC-SHA256 API gateway",
	Long: `acs-mock is a local API gateway that authenticates requests signed
with ACS3-HMAC-SHA256 and echoes back what it received.

It is meant for testing clients without reaching the real cloud API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}
		setupLogging(cfg.Log)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", nil, "config file path, repeatable (default: ./acs-mock.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "nonce store: memory, sqlite, postgres (default: memory, env: ACSIGN_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "nonce store connection string (env: ACSIGN_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: ACSIGN_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text, json (env: ACSIGN_LOG_FORMAT)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
