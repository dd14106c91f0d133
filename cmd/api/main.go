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

	"github.com/cmlabs-hris/campus-attendance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/campus-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/campus-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/campus-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/campus-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/campus-attendance-go/internal/repository/postgresql"
	approvalService "github.com/cmlabs-hris/campus-attendance-go/internal/service/approval"
	attendanceService "github.com/cmlabs-hris/campus-attendance-go/internal/service/attendance"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.App.LogLevel),
	})))

	attendanceDefaults, err := cfg.AttendanceDefaults()
	if err != nil {
		slog.Error("Invalid attendance configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolConfig{})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	attendanceRepo := postgresql.NewAttendanceRecordRepository(db)
	transactor := postgresql.NewTransactor(db)

	resolutionCache := approvalService.NewResolutionCache(cfg.Cache.Size)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	approvalSvc := approvalService.NewApprovalService(transactor, leaveRequestRepo, resolutionCache)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, attendanceDefaults)

	approvalHandler := appHTTP.NewApprovalHandler(approvalSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Env:            cfg.App.Env,
			Version:        version,
		},
		JWTService,
		approvalHandler,
		attendanceHandler,
	)

	scheduler := cron.NewScheduler(ctx)
	cron.NewCacheJobs(resolutionCache, cfg.Cache.PruneInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
