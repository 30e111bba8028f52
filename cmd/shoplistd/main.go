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
	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/shoplist/internal/auth"
	"github.com/dukerupert/shoplist/internal/config"
	"github.com/dukerupert/shoplist/internal/database"
	"github.com/dukerupert/shoplist/internal/logging"
	"github.com/dukerupert/shoplist/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "shoplistd",
		Short:        "Shopping list API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	root.Flags().StringVar(&configFile, "config", "", "config file (default .env in the working directory)")
	root.Flags().String("port", "", "listen port")
	root.Flags().String("db", "", "sqlite database path")
	root.Flags().Int("rate-limit", 0, "API requests per client per minute (0 disables)")
	root.Flags().String("log-level", "", "debug, info, warn or error")
	root.Flags().String("log-format", "", "text or json")

	root.AddCommand(newHashTokenCmd())
	return root
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		return err
	}
	defer db.Close()

	if cfg.TokenHash == "" {
		logger.Warn("SHOPLISTD_TOKEN_HASH is empty, API is open to anyone who can reach it")
	}

	srv := server.New(db, server.Options{
		TokenHash: cfg.TokenHash,
		RateLimit: cfg.RateLimit,
	}, logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("shoplistd listening", "addr", "http://localhost:"+cfg.Port, "db", cfg.DBPath)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		srv.RunCleanup(gctx, 5*time.Minute)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("shoplistd stopped", "error", err)
		return err
	}
	return nil
}

func newHashTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-token [token]",
		Short: "Print a bcrypt hash for SHOPLISTD_TOKEN_HASH, generating a token when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			} else {
				var err error
				if token, err = auth.NewToken(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "SHOPLIST_TOKEN=%s\n", token)
			}
			hash, err := auth.HashToken(token)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "SHOPLISTD_TOKEN_HASH=%s\n", hash)
			slog.Debug("token hashed", "fingerprint", auth.TokenFingerprint(token))
			return nil
		},
	}
}
