package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"time-planner/internal/aggregation"
	"time-planner/internal/auth"
	"time-planner/internal/config"
	"time-planner/internal/repository"
	"time-planner/internal/server"
	"time-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	eventRepo := repository.NewEventRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	taskSvc := service.NewTaskService(taskRepo, eventRepo, categoryRepo)
	eventSvc := service.NewEventService(eventRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	reminderSvc := service.NewReminderService(reminderRepo, categoryRepo)
	aggregationSvc := aggregation.New(taskRepo, eventRepo, analyticsRepo, cfg.DailyBudgetMin)

	authMgr := auth.NewManager(cfg.JWTSecret)
	srv := server.New(authMgr, userRepo, taskSvc, eventSvc, categorySvc, reminderSvc, aggregationSvc)

	if cfg.RefreshInterval > 0 {
		scheduler := service.NewSchedulerService(time.UTC)
		if _, err := scheduler.ScheduleInterval(cfg.RefreshInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			refreshAllWeeklyAnalytics(jobCtx, userRepo, aggregationSvc)
		}); err != nil {
			log.Fatalf("schedule analytics refresh: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[warn] shutdown: %v", err)
		}
	}()

	log.Printf("[info] time planner listening on %s", cfg.HTTPAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}

// refreshAllWeeklyAnalytics rebuilds the current week's aggregate for
// every user. Failures are logged per user and do not stop the sweep.
func refreshAllWeeklyAnalytics(ctx context.Context, users *repository.UserRepository, agg *aggregation.Service) {
	all, err := users.ListAll(ctx)
	if err != nil {
		log.Printf("[warn] analytics refresh: list users: %v", err)
		return
	}
	now := time.Now()
	for i := range all {
		if _, err := agg.UpdateWeeklyAnalytics(ctx, &all[i], now); err != nil {
			log.Printf("[warn] analytics refresh: user %d: %v", all[i].ID, err)
		}
	}
}
