package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpadp "goldvault-backend/internal/adapter/http"
	mw "goldvault-backend/internal/adapter/middleware"
	repo "goldvault-backend/internal/adapter/repository/mysql"
	"goldvault-backend/internal/config"
	"goldvault-backend/internal/infrastructure/cache"
	"goldvault-backend/internal/infrastructure/db"
	"goldvault-backend/internal/infrastructure/logging"
	"goldvault-backend/internal/infrastructure/metrics"
	"goldvault-backend/internal/usecase/account"
	"goldvault-backend/internal/usecase/gold"
	"goldvault-backend/internal/usecase/loan"
)

func main() {
	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{ServiceName: "goldvault-api", Environment: cfg.AppEnv, Level: cfg.LogLevel})
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", slog.Any("err", err))
		os.Exit(1)
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), db.LogLevel(cfg.LogLevel))
	if err != nil {
		logger.Error("database", slog.String("driver", cfg.DBDriver), slog.Any("err", err))
		os.Exit(1)
	}
	if cfg.DBAutoMigrate {
		if err := repo.AutoMigrate(gdb); err != nil {
			logger.Error("auto-migrate", slog.Any("err", err))
			os.Exit(1)
		}
	}
	sqlDB, err := db.SQLDB(gdb)
	if err != nil {
		logger.Error("database", slog.Any("err", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(context.Background(), cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Error("redis", slog.String("addr", cfg.RedisAddr), slog.Any("err", err))
		os.Exit(1)
	}
	defer rdb.Close()

	// repositories + usecases
	users := repo.NewUserRepository(gdb)
	loans := repo.NewLoanRepository(gdb)
	decisions := repo.NewDecisionRepository(gdb)
	tx := repo.NewGormUoW(gdb)

	accounts := account.NewUsecase(users, cfg.AdminEmail, cfg.ConflictRetries)
	goldUC := gold.NewUsecase(users, loans, tx, cfg.ConflictRetries)
	loanUC := loan.NewUsecase(users, loans, decisions, tx, loan.Settings{
		DefaultInterestRate:   cfg.DefaultInterestRate,
		GoldPricePerGram:      cfg.GoldPricePerGram,
		MaxLoanToValuePercent: cfg.MaxLoanToValuePercent,
		MaxTenureMonths:       cfg.MaxTenureMonths,
		ConflictRetries:       cfg.ConflictRetries,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if uid := httpadp.CurrentUserID(c); uid != "" {
				attrs = append(attrs, slog.String("user_id", uid))
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.Any("err", v.Error))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}))
	e.Use(mw.MetricsMiddleware(m))

	// routes
	httpadp.RegisterRoutes(e, httpadp.NewAuthenticator(cfg.JWTSecret, cfg.JWTIssuer, accounts), httpadp.Handlers{
		Health: httpadp.NewHandler(
			httpadp.Check{Name: "db", Ping: sqlDB.PingContext},
			httpadp.Check{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		),
		Accounts:  httpadp.NewAccountHandler(accounts),
		Gold:      httpadp.NewGoldHandler(goldUC, m),
		Loans:     httpadp.NewLoanHandler(loanUC, m),
		Approvals: httpadp.NewApprovalHandler(loanUC, m),
		Metrics:   m.Handler(),
	}, mw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, httpadp.CurrentUserID))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	go func() {
		logger.Info("listening", slog.String("addr", addr), slog.String("db", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", slog.Any("err", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("err", err))
	}
}
