package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"yatra-app-go/internal/config"
	"yatra-app-go/internal/domain/access"
	"yatra-app-go/internal/transport/httpserver/handler"
	authmw "yatra-app-go/internal/transport/httpserver/middleware"
	"yatra-app-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewMetrics(handlers.Metrics))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))

	if cfg.MetricsEnabled {
		r.Handle("/metrics", handlers.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Post("/auth/login", handlers.Login)

		auth := authmw.NewSessionAuth(handlers.Sessions, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Post("/auth/logout", handlers.Logout)
			r.Get("/auth/me", handlers.AuthMe)

			r.With(authmw.RequireRole(access.Role.CanChangeAdminSecret)).
				Put("/settings/admin-secret", handlers.ChangeAdminSecret)

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireRole(access.Role.CanManageMembers))

				r.Get("/members", handlers.ListMembers)
				r.Post("/members", handlers.CreateMember)
				r.Get("/members/export", handlers.ExportMembers)
				r.Patch("/members/{id}", handlers.UpdateMember)
				r.Delete("/members/{id}", handlers.DeleteMember)
				r.Post("/members/{id}/toggle-payment", handlers.TogglePayment)
			})

			r.With(authmw.RequireRole(access.Role.CanImportMembers)).
				Post("/members/import", handlers.ImportMembers)

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireRole(access.Role.CanViewDashboard))

				r.Get("/dashboard/stats", handlers.DashboardStats)
				r.Get("/dashboard/buses", handlers.DashboardBuses)
			})

			r.With(authmw.RequireRole(access.Role.CanViewOwnRecords)).
				Get("/me/records", handlers.MyRecords)

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireRole(access.Role.CanManageReceivers))

				r.Get("/receivers", handlers.ListReceivers)
				r.Post("/receivers", handlers.CreateReceiver)
				r.Delete("/receivers", handlers.DeleteReceiver)
			})
		})
	})

	return r
}
