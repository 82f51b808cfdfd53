package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SscSPs/partsledger/internal/adapters/database/memory"
	"github.com/SscSPs/partsledger/internal/adapters/database/pgsql"
	"github.com/SscSPs/partsledger/internal/adapters/export/xlsx"
	"github.com/SscSPs/partsledger/internal/core/ports/repositories"
	"github.com/SscSPs/partsledger/internal/core/services"
	"github.com/SscSPs/partsledger/internal/handlers"
	"github.com/SscSPs/partsledger/internal/middleware"
	"github.com/SscSPs/partsledger/internal/platform/config"
	"github.com/SscSPs/partsledger/internal/utils"
	"github.com/SscSPs/partsledger/migrations"
	"github.com/SscSPs/partsledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Parts Ledger API
// @version 1.0
// @description Double-entry ledger, stock register and billing backend for an auto parts shop.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if len(os.Args) > 1 && os.Args[1] == "token" {
		os.Exit(runIssueToken(os.Args[2:]))
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	uow, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.DBDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	container := services.NewServiceContainer(cfg, uow, xlsx.NewStockRegisterWriter())
	if err := container.Ledger.EnsureSystemLedgers(ctx); err != nil {
		logger.Error("Failed to provision system ledgers", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AddAllowHeaders("Authorization", middleware.OperatorHeader)
	corsConfig.AddExposeHeaders("Content-Disposition", "X-Request-ID")
	r.Use(cors.New(corsConfig))

	limiter, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", slog.String("error", err.Error()))
	}
}

// openStore returns the unit of work for the configured driver and a func that releases it.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.UnitOfWork, func(), error) {
	if cfg.DBDriver == config.DriverMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		return memory.New(), func() {}, nil
	}

	if err := database.RunMigrations(cfg.DatabaseURL, migrations.FS, logger); err != nil {
		return nil, nil, err
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return pgsql.NewUnitOfWork(pool), func() { database.ClosePgxPool(pool) }, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// runIssueToken prints a bearer token for an operator, signed with JWT_SECRET.
func runIssueToken(args []string) int {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	operator := fs.String("operator", "", "operator name recorded on audit entries")
	ttl := fs.Duration("ttl", 30*24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return 1
	}
	token, err := utils.IssueOperatorToken(*operator, cfg.JWTSecret, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to issue token:", err)
		return 1
	}
	fmt.Println(token)
	return 0
}
