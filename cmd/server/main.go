package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fitadmin/diary_service/internal/app"
	"github.com/fitadmin/diary_service/internal/config"
	"github.com/fitadmin/diary_service/internal/controller/httpapi"
	"github.com/fitadmin/diary_service/internal/repository"
	"github.com/fitadmin/diary_service/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	diaryRepo := repository.NewDiaryRepository(pool)
	userDiaryRepo := repository.NewUserDiaryRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)

	scheduleService := service.NewScheduleService(diaryRepo, logger)
	enrollmentService := service.NewEnrollmentService(diaryRepo, userDiaryRepo, logger)
	attendanceService := service.NewAttendanceService(diaryRepo, attendanceRepo, logger)
	calendarService := service.NewCalendarService(diaryRepo, userDiaryRepo, attendanceRepo, nil, logger)

	enrollmentService.OnChange(func(event service.EnrollmentChanged) {
		logger.Info("enrollment changed",
			zap.String("event_id", event.EventID.String()),
			zap.String("action", event.Action),
			zap.Int64("user_id", event.UserID),
			zap.Int64("diary_id", event.DiaryID),
		)
	})

	api := httpapi.New(scheduleService, enrollmentService, attendanceService, calendarService, logger)
	handler := cors.Default().Handler(api.Handler())

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("Starting diary service",
			zap.String("environment", cfg.Environment),
			zap.String("addr", cfg.HTTPAddr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
