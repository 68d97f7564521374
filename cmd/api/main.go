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

	"github.com/sewahr/payroll-backend-go/internal/config"
	appHTTP "github.com/sewahr/payroll-backend-go/internal/handler/http"
	"github.com/sewahr/payroll-backend-go/internal/pkg/cron"
	"github.com/sewahr/payroll-backend-go/internal/pkg/database"
	"github.com/sewahr/payroll-backend-go/internal/pkg/jwt"
	"github.com/sewahr/payroll-backend-go/internal/repository/postgresql"
	advanceService "github.com/sewahr/payroll-backend-go/internal/service/advance"
	payrollService "github.com/sewahr/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	setupLogger(cfg.App.LogLevel)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Pool.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	advanceSvc := advanceService.NewAdvanceService(db, advanceRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(db, payrollRepo, employeeRepo, advanceSvc, cfg.Payroll.DefaultDeductionPercent)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	advanceHandler := appHTTP.NewAdvanceHandler(advanceSvc)

	router := appHTTP.NewRouter(jwtService, payrollHandler, advanceHandler, cfg.App.Env)

	scheduler := cron.NewScheduler()
	payrollJobs := cron.NewPayrollJobs(payrollRepo, db, cfg.Payroll.RollupRefreshInterval)
	payrollJobs.RegisterJobs(scheduler)
	scheduler.Start()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server running", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutdown signal received")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	} else {
		slog.Info("Server exited gracefully")
	}
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
}
