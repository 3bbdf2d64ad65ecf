package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/acsign"
	"github.com/sagarc03/acsign/config"
	"github.com/sagarc03/acsign/database"
	acshttp "github.com/sagarc03/acsign/http"
	"github.com/sagarc03/acsign/keybackend"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock gateway",
	Long: `Start the HTTP gateway.

Every path except /healthz requires a valid ACS3-HMAC-SHA256 signature
unless auth.required is false. With nonce.enabled, each signature nonce
is accepted once and remembered in the configured database.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "HTTP server port")
	serveCmd.Flags().Duration("max-skew", acsign.DefaultMaxSkew, "allowed difference between x-acs-date and server time")
	serveCmd.Flags().Bool("verify-payload", true, "check x-acs-content-sha256 against the request body")
	serveCmd.Flags().String("keys-file", "", "JSON file with access key pairs")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	verifier, closeStore, err := newVerifier(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	handlerConfig := acshttp.HandlerConfig{
		CORS:        cfg.CORS,
		MaxBodySize: cfg.Server.MaxBodySize,
	}
	if verifier != nil {
		handlerConfig.Verifier = verifier
	}

	handler := acshttp.NewHandler(&handlerConfig)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server",
		"addr", addr,
		"auth_required", cfg.Auth.Required,
		"nonce_store", nonceStoreName(cfg),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// newVerifier builds the request verifier from cfg. It returns a nil
// verifier when auth is not required. The cleanup function releases the
// nonce store and is always safe to call.
func newVerifier(ctx context.Context, cfg *config.Config) (*acsign.Verifier, func(), error) {
	noop := func() {}

	if !cfg.Auth.Required {
		slog.Warn("authentication disabled, every request is accepted")
		return nil, noop, nil
	}

	secrets, err := keybackend.NewSecretStore(cfg.Auth.Keys)
	if err != nil {
		return nil, noop, fmt.Errorf("load access keys: %w", err)
	}
	if m, ok := secrets.(*keybackend.MapSecretStore); ok {
		if m.Len() == 0 {
			slog.Warn("no access keys configured, every signed request will be rejected")
		} else {
			slog.Info("loaded access keys", "count", m.Len())
		}
	}

	opts := []acsign.VerifierOption{acsign.WithMaxSkew(cfg.Auth.MaxSkew)}
	if cfg.Auth.VerifyPayload {
		opts = append(opts, acsign.WithPayloadCheck())
	}

	if !cfg.Nonce.Enabled {
		return acsign.NewVerifier(secrets, opts...), noop, nil
	}

	store, closeDB, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, noop, fmt.Errorf("open nonce store: %w", err)
	}
	slog.Info("connected to nonce store", "type", cfg.Database.Type)

	go database.RunPurger(ctx, store, cfg.Nonce.PurgeInterval, cfg.Nonce.Retention)

	opts = append(opts, acsign.WithNonceStore(store))
	return acsign.NewVerifier(secrets, opts...), closeDB, nil
}

func nonceStoreName(cfg *config.Config) string {
	if !cfg.Auth.Required || !cfg.Nonce.Enabled {
		return "none"
	}
	return cfg.Database.Type
}
