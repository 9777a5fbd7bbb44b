package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/usbankcorp/bankd/internal/account"
	"github.com/usbankcorp/bankd/internal/auth"
	"github.com/usbankcorp/bankd/internal/config"
	"github.com/usbankcorp/bankd/internal/database"
	bankdHttp "github.com/usbankcorp/bankd/internal/http"
	accountHandler "github.com/usbankcorp/bankd/internal/http/account"
	adminHandler "github.com/usbankcorp/bankd/internal/http/admin"
	authHandler "github.com/usbankcorp/bankd/internal/http/auth"
	transferHandler "github.com/usbankcorp/bankd/internal/http/transfer"
	"github.com/usbankcorp/bankd/internal/transaction"
	"github.com/usbankcorp/bankd/internal/transaction/inmem"
	txStore "github.com/usbankcorp/bankd/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ledger, err := newLedger(cfg)
	if err != nil {
		slog.Error("failed to open ledger store", "error", err)
		os.Exit(1)
	}

	txOpts := []transaction.Option{transaction.WithMaxAttempts(cfg.Verification.MaxAttempts)}
	if cfg.Verification.Lockout {
		txOpts = append(txOpts, transaction.WithLockout())
	}

	var (
		accounts    = account.NewFixed()
		directory   = account.NewDirectory(accounts)
		authService = auth.NewService(accounts, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		txService   = transaction.NewService(ledger, txOpts...)
	)

	var (
		authH     = authHandler.NewHandler(authService)
		accountH  = accountHandler.NewHandler(directory)
		transferH = transferHandler.NewHandler(txService, directory)
		adminH    = adminHandler.NewHandler(txService, accounts)
	)

	router := bankdHttp.New(authService, authH, accountH, transferH, adminH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "store", cfg.Store)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newLedger(cfg *config.Config) (transaction.Repository, error) {
	switch cfg.Store {
	case "postgres":
		db, err := database.New(context.Background(), cfg.ConnectionString())
		if err != nil {
			return nil, err
		}

		return txStore.New(db), nil
	case "memory":
		store := inmem.New()
		inmem.SeedDemo(store)

		return store, nil
	}

	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}
