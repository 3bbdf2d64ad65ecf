package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/acsign/config"
	"github.com/sagarc03/acsign/database"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired nonces from the nonce store",
	Long: `Delete remembered signature nonces older than nonce.retention.

The server purges on its own every nonce.purge_interval. This command
is for stores shared by several gateways or left behind by a stopped one.`,
	RunE: runPurge,
}

var purgeDryRun bool

func init() {
	purgeCmd.Flags().BoolVar(&purgeDryRun, "dry-run", false, "only report how many nonces are stored")
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	store, closeDB, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open nonce store: %w", err)
	}
	defer closeDB()

	before, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count nonces: %w", err)
	}

	if purgeDryRun {
		slog.Info("nonce store", "type", cfg.Database.Type, "nonces", before)
		return nil
	}

	slog.Info("starting purge", "retention", cfg.Nonce.Retention)

	removed, err := database.PurgeOlderThan(ctx, store, time.Now(), cfg.Nonce.Retention)
	if err != nil {
		return fmt.Errorf("purge nonces: %w", err)
	}

	slog.Info("purge complete", "removed", removed, "remaining", before-removed)
	return nil
}
