package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chairtime/chairtime-backend/api/controllers"
	"github.com/chairtime/chairtime-backend/api/middleware"
	"github.com/chairtime/chairtime-backend/internal/appointments"
	"github.com/chairtime/chairtime-backend/internal/availability"
	"github.com/chairtime/chairtime-backend/internal/bookinglimits"
	"github.com/chairtime/chairtime-backend/internal/catalog"
	"github.com/chairtime/chairtime-backend/internal/schedule"
	"github.com/chairtime/chairtime-backend/internal/settings"
	"github.com/chairtime/chairtime-backend/internal/stores"
	"github.com/chairtime/chairtime-backend/internal/timeoff"
	"github.com/chairtime/chairtime-backend/pkg/config"
	"github.com/chairtime/chairtime-backend/pkg/db"
	"github.com/chairtime/chairtime-backend/pkg/logger"
	"github.com/chairtime/chairtime-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	availabilityService availability.Service,
	appointmentService appointments.Service,
	limitService bookinglimits.Service,
	timeOffService timeoff.Service,
	scheduleService schedule.Service,
	settingsService settings.Service,
	storeService stores.Service,
	catalogService catalog.Service,
	blacklistSource controllers.BlacklistSource,
	userSource controllers.UserSource,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/v1", func(r chi.Router) {
			r.Get("/me", controllers.Me(userSource, logg))
			r.Get("/availability", controllers.AvailabilityList(availabilityService, logg))
			r.Get("/booking-limits", controllers.BookingLimitStatus(limitService, logg))

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", controllers.AppointmentList(appointmentService, logg))
				r.Post("/", controllers.AppointmentCreate(appointmentService, logg))
				r.Post("/{id}/status", controllers.AppointmentUpdateStatus(appointmentService, logg))
			})

			r.Post("/time-off", controllers.TimeOffCreate(timeOffService, logg))

			r.Route("/providers/{id}", func(r chi.Router) {
				r.Get("/appointments", controllers.ProviderAppointments(appointmentService, logg))
				r.Route("/weekly-hours", func(r chi.Router) {
					r.Get("/", controllers.WeeklyHoursList(scheduleService, logg))
					r.Post("/", controllers.WeeklyHoursAdd(scheduleService, logg))
					r.Delete("/{hourId}", controllers.WeeklyHoursRemove(scheduleService, logg))
				})
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/v1", func(r chi.Router) {
			r.Route("/settings/booking-limits", func(r chi.Router) {
				r.Get("/", controllers.AdminBookingLimitsGet(settingsService, logg))
				r.Put("/", controllers.AdminBookingLimitsPut(settingsService, logg))
			})
			r.Route("/stores", func(r chi.Router) {
				r.Post("/", controllers.AdminStoreCreate(storeService, logg))
				r.Put("/{id}/hours", controllers.AdminStoreHoursReplace(scheduleService, logg))
			})
			r.Post("/services", controllers.AdminServiceCreate(catalogService, logg))
			r.Get("/blacklist", controllers.AdminBlacklistList(blacklistSource, logg))
		})
	})

	return r
}
