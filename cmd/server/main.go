package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Drij77/ecommerce-graphql-api/internal/auth"
	apihttp "github.com/Drij77/ecommerce-graphql-api/internal/http"
	"github.com/Drij77/ecommerce-graphql-api/internal/repository"
	"github.com/Drij77/ecommerce-graphql-api/internal/service"
	"github.com/Drij77/ecommerce-graphql-api/internal/telemetry"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if getEnv("OTEL_ENABLED", "false") == "true" {
		shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "storefront-api"))
		if err != nil {
			slog.Error("failed to initialise tracer", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("tracer shutdown error", "error", err)
			}
		}()
	}

	port := getEnv("PORT", "4000")
	dbPath := getEnv("DB_PATH", "./data/store.db")
	migrationsPath := getEnv("MIGRATIONS_PATH", "./internal/repository/migrations")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}
	tokenTTL := time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour
	bcryptCost := getEnvInt("BCRYPT_COST", 10)

	repo, err := repository.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	if err := repo.RunMigrations(migrationsPath); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations completed")

	creds := auth.NewCredentials(jwtSecret, tokenTTL, bcryptCost)
	accounts := service.NewAccountService(repo, creds)
	catalog := service.NewCatalogService(repo)
	orders := service.NewOrderService(repo)

	router := apihttp.NewRouter(
		accounts,
		apihttp.NewAccountHandler(accounts),
		apihttp.NewProductHandler(catalog),
		apihttp.NewCategoryHandler(catalog),
		apihttp.NewOrderHandler(orders),
	)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: otelhttp.NewHandler(router, "http.server"),
	}

	go func() {
		slog.Info("API server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
}
