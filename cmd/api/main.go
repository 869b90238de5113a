package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/chairtime/chairtime-backend/api/routes"
	"github.com/chairtime/chairtime-backend/internal/appointments"
	"github.com/chairtime/chairtime-backend/internal/availability"
	"github.com/chairtime/chairtime-backend/internal/blacklist"
	"github.com/chairtime/chairtime-backend/internal/bookinglimits"
	"github.com/chairtime/chairtime-backend/internal/catalog"
	"github.com/chairtime/chairtime-backend/internal/schedule"
	"github.com/chairtime/chairtime-backend/internal/settings"
	"github.com/chairtime/chairtime-backend/internal/stores"
	"github.com/chairtime/chairtime-backend/internal/timeoff"
	"github.com/chairtime/chairtime-backend/internal/users"
	"github.com/chairtime/chairtime-backend/pkg/config"
	"github.com/chairtime/chairtime-backend/pkg/db"
	"github.com/chairtime/chairtime-backend/pkg/logger"
	"github.com/chairtime/chairtime-backend/pkg/metrics"
	"github.com/chairtime/chairtime-backend/pkg/migrate"
	"github.com/chairtime/chairtime-backend/pkg/outbox"
	"github.com/chairtime/chairtime-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()

	settingsService, err := settings.NewService(settings.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}
	scheduleService, err := schedule.NewService(schedule.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create schedule service", err)
		os.Exit(1)
	}
	storeService, err := stores.NewService(stores.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}
	catalogRepo := catalog.NewRepository(gormDB)
	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	appointmentRepo := appointments.NewRepository(gormDB)
	limitService, err := bookinglimits.NewService(appointmentRepo, settingsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create booking limit service", err)
		os.Exit(1)
	}

	timeOffRepo := timeoff.NewRepository(gormDB)
	blacklistRepo := blacklist.NewRepository(gormDB)
	userRepo := users.NewRepository(gormDB)
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)
	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	appointmentService, err := appointments.NewService(
		dbClient,
		appointmentRepo,
		catalogRepo,
		scheduleService,
		timeOffRepo,
		limitService,
		blacklistRepo,
		outboxService,
		bookingMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create appointment service", err)
		os.Exit(1)
	}

	timeOffService, err := timeoff.NewService(
		dbClient,
		timeOffRepo,
		appointmentService,
		outboxService,
		bookingMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create time off service", err)
		os.Exit(1)
	}

	availabilityService, err := availability.NewService(
		scheduleService,
		catalogRepo,
		appointmentRepo,
		timeOffRepo,
		cfg.Booking.MaxRangeDays,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create availability service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			availabilityService,
			appointmentService,
			limitService,
			timeOffService,
			scheduleService,
			settingsService,
			storeService,
			catalogService,
			blacklistRepo,
			userRepo,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
