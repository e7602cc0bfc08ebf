package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hotel-ledger/internal/audit"
	"hotel-ledger/internal/auth"
	"hotel-ledger/internal/config"
	"hotel-ledger/internal/observability/metrics"
	"hotel-ledger/internal/reporting/application"
	reporting "hotel-ledger/internal/reporting/domain"
	"hotel-ledger/internal/reporting/infrastructure/memory"
	"hotel-ledger/internal/reporting/infrastructure/postgres"
	"hotel-ledger/internal/reporting/interfaces"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	logger := newLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		db          *sql.DB
		ledger      application.Ledger
		auditLogger audit.Logger = audit.NewZapLogger(logger)
	)
	switch cfg.LedgerBackend {
	case config.BackendPostgres:
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db open error", zap.Error(err))
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			logger.Fatal("db ping error", zap.Error(err))
		}
		if err := postgres.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
			logger.Fatal("migrations error", zap.Error(err))
		}
		ledger = postgres.NewLedgerRepository(db)
		auditLogger = audit.NewRepository(db)
	default:
		logger.Warn("using in-memory ledger; data is lost on restart")
		ledger = memory.NewLedgerRepository()
	}

	metrics.Init(db, logger)

	service, err := application.NewReportService(ledger, reporting.SystemClock{}, cfg.Location(), cfg.WorkdayStartHour, logger)
	if err != nil {
		logger.Fatal("report service error", zap.Error(err))
	}
	reportHandler, err := interfaces.NewReportHandler(service, auditLogger, logger, interfaces.ExportOptions{
		PropertyName:   cfg.PropertyName,
		CurrencySuffix: cfg.CurrencySuffix,
		Location:       cfg.Location(),
	})
	if err != nil {
		logger.Fatal("report handler error", zap.Error(err))
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/reports/", reportHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      loggingMiddleware(authMiddleware.Wrap(mux), logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown error", zap.Error(err))
		}
	}()

	logger.Info("http server listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("backend", cfg.LedgerBackend),
		zap.String("timezone", cfg.Timezone),
		zap.Int("workday_start_hour", cfg.WorkdayStartHour))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server error", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func loggingMiddleware(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", resp.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
