package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kumandra/claimd/internal/config"
	"github.com/kumandra/claimd/internal/httpapi"
	"github.com/kumandra/claimd/internal/storage/sqlite"
	"github.com/kumandra/claimd/pkg/claim"
	"github.com/kumandra/claimd/pkg/identity"
)

var (
	serveAddr   string
	serveDBPath string
	serveMemory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the claim API server",
	Long: `Start the HTTP API server.

Configuration comes from CLAIMD_* environment variables; --addr and --db
override the listen address and database path. CLAIMD_SECRET must be set:
it is the challenge message every caller signs.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.ListenAddr = serveAddr
		}
		if serveDBPath != "" {
			cfg.DBPath = serveDBPath
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		var store claim.Store
		if serveMemory {
			log.Printf("Using in-memory store (records will not survive restart)")
			store = claim.NewMemStore()
		} else {
			s, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open claim store: %w", err)
			}
			defer s.Close()
			store = s
		}

		verifier := identity.NewVerifier(cfg.Secret)
		nonces := identity.NewNonceCache(&identity.NonceConfig{
			TTL:           cfg.NonceTTL,
			SweepInterval: time.Minute,
		})
		defer nonces.Close()

		service := claim.NewService(verifier, nonces, store, claim.ServiceConfig{
			RequireNonce: cfg.RequireNonce,
		})

		api := httpapi.NewServer(service, httpapi.Options{
			EnableSigner: cfg.EnableSigner,
			Challenge:    cfg.Secret,
		})
		if cfg.EnableSigner {
			log.Printf("WARNING: /sign is enabled; callers will send raw private keys to this server")
		}

		srv := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           api.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Printf("Server is running at: %s", cfg.ListenAddr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case <-ctx.Done():
			log.Printf("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides CLAIMD_LISTEN_ADDR)")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "sqlite database path (overrides CLAIMD_DB_PATH)")
	serveCmd.Flags().BoolVar(&serveMemory, "memory", false, "use an in-memory store instead of sqlite")
	rootCmd.AddCommand(serveCmd)
}
