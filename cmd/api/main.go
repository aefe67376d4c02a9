package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/minibank/minibank-backend/internal/config"
	"github.com/minibank/minibank-backend/internal/handler"
	"github.com/minibank/minibank-backend/internal/logging"
	"github.com/minibank/minibank-backend/internal/middleware"
	"github.com/minibank/minibank-backend/internal/repository"
	"github.com/minibank/minibank-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("minibank-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	accountSvc := service.NewAccountService(accountRepo, db, cfg.AccountNumberMaxRetries)
	notifierClient := service.NewNotifierClient(cfg.NotifierURL, time.Duration(cfg.NotifierTimeoutS)*time.Second)
	gateway := service.NewNotificationGateway(notifierClient)
	transactionSvc := service.NewTransactionService(accountSvc, transactionRepo, gateway)

	accountHandler := handler.NewAccountHandler(accountSvc)
	transactionHandler := handler.NewTransactionHandler(transactionSvc)
	healthHandler := handler.NewHealthHandler(db)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health/live", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)

	mux.HandleFunc("POST /api/v1/accounts", accountHandler.Create)
	mux.HandleFunc("GET /api/v1/accounts/{accountNumber}", accountHandler.Get)
	mux.HandleFunc("PATCH /api/v1/accounts/{accountNumber}/balance", accountHandler.UpdateBalance)
	mux.HandleFunc("PATCH /api/v1/accounts/{accountNumber}/status", accountHandler.UpdateStatus)

	mux.HandleFunc("POST /api/v1/transactions/deposit", transactionHandler.Deposit)
	mux.HandleFunc("POST /api/v1/transactions/withdraw", transactionHandler.Withdraw)
	mux.HandleFunc("POST /api/v1/transactions/transfer", transactionHandler.Transfer)
	mux.HandleFunc("GET /api/v1/transactions/{accountNumber}", transactionHandler.History)

	root := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
