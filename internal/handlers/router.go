package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/grupomm-oficial/mm-frota/internal/middleware"
	"github.com/grupomm-oficial/mm-frota/internal/models"
	"github.com/sirupsen/logrus"
)

// HealthFunc reports whether the backing services are reachable.
type HealthFunc func(r *http.Request) error

// RouterConfig collects what the HTTP surface needs.
type RouterConfig struct {
	Fleet   *FleetHandler
	Auth    *AuthHandler
	AuthMW  *middleware.AuthMiddleware
	Limiter *middleware.RateLimiter
	Proxies middleware.TrustedProxies
	Health  HealthFunc
	Logger  logrus.FieldLogger
}

// NewRouter mounts every endpoint under /api plus /health.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(log, cfg.Proxies))
	if cfg.Limiter != nil {
		r.Use(middleware.IPRateLimit(cfg.Limiter, cfg.Proxies))
	}

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(req); err != nil {
				log.WithError(err).Warn("health check failed")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", cfg.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthMW.Authenticate)
			if cfg.Limiter != nil {
				r.Use(middleware.ActorRateLimit(cfg.Limiter))
			}
			admin := cfg.AuthMW.RequireRole(models.RoleAdmin)
			h := cfg.Fleet

			r.Get("/auth/me", cfg.Auth.Me)
			r.Get("/dashboard", h.Dashboard)

			r.Get("/vehicles", h.ListVehicles)
			r.With(admin).Post("/vehicles", h.CreateVehicle)
			r.Get("/vehicles/{id}", h.GetVehicle)
			r.Get("/vehicles/{id}/report", h.VehicleReport)

			r.Get("/drivers", h.ListDrivers)
			r.With(admin).Post("/drivers", h.CreateDriver)

			r.Get("/routes", h.ListRoutes)
			r.Post("/routes", h.StartRoute)
			r.Post("/routes/{id}/finish", h.FinishRoute)
			r.Post("/routes/{id}/cancel", h.CancelRoute)
			r.With(admin).Delete("/routes/{id}", h.DeleteRoute)

			r.Get("/maintenances", h.ListMaintenances)
			r.Post("/maintenances", h.StartMaintenance)
			r.Post("/maintenances/{id}/finish", h.FinishMaintenance)
			r.With(admin).Delete("/maintenances/{id}", h.DeleteMaintenance)

			r.Get("/refuelings", h.ListRefuelings)
			r.Post("/refuelings", h.RecordRefueling)
			r.With(admin).Delete("/refuelings/{id}", h.DeleteRefueling)

			r.Get("/summaries", h.ListSummaries)
			r.With(admin).Post("/summaries/close", h.CloseMonth)
			r.Get("/summaries/{monthKey}", h.GetSummary)
		})
	})

	return r
}
