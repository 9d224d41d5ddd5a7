package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-timekeeping/internal/config"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	TimeEntry TimeEntryHandler
	Leave     LeaveHandler
	Overtime  OvertimeHandler
	Summary   SummaryHandler
}

func NewRouter(cfg *config.Config, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-timekeeping"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.SlogLevel(),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/time", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionTimeCreate)).Post("/clock-in", h.TimeEntry.ClockIn)
				r.With(middleware.RequirePermission(user.PermissionTimeCreate)).Post("/clock-out", h.TimeEntry.ClockOut)

				r.Route("/entries", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionTimeCreate)).Post("/", h.TimeEntry.CreateEntry)
					r.Get("/", h.TimeEntry.ListEntries)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", h.TimeEntry.GetEntry)
						r.Put("/", h.TimeEntry.UpdateEntry)
						r.Delete("/", h.TimeEntry.DeleteEntry)
						r.Get("/audit", h.TimeEntry.GetAuditTrail)
						r.With(middleware.RequirePermission(user.PermissionTimeApprove)).Put("/approve", h.TimeEntry.ApproveEntry)
					})
				})

				r.Get("/summary", h.Summary.GetMySummary)
				r.Get("/summary/{userId}", h.Summary.GetSummary)
			})

			r.Route("/overtime", func(r chi.Router) {
				r.Get("/balance", h.Overtime.GetMyBalance)
				r.Get("/balance/{userId}", h.Overtime.GetBalance)
				r.Post("/calculate", h.Overtime.Calculate)

				r.Route("/rules/default", func(r chi.Router) {
					r.Get("/", h.Overtime.GetDefaultRule)
					r.With(middleware.RequirePermission(user.PermissionOvertimeManageRules)).Put("/", h.Overtime.ReplaceDefaultRule)
				})

				r.Route("/requests", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionOvertimeRequest)).Post("/", h.Overtime.CreateRequest)
					r.Get("/", h.Overtime.ListRequests)
					r.With(middleware.RequirePermission(user.PermissionOvertimeApprove)).Put("/{id}/approve", h.Overtime.DecideRequest)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Route("/requests", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", h.Leave.CreateRequest)
					r.Get("/", h.Leave.ListRequests)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", h.Leave.GetRequest)
						r.Put("/", h.Leave.UpdateRequest)
						r.Delete("/", h.Leave.CancelRequest)
						r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Put("/approve", h.Leave.DecideRequest)
					})
				})

				r.Route("/balances", func(r chi.Router) {
					r.Get("/", h.Leave.GetMyBalances)
					r.Get("/{employeeId}", h.Leave.GetBalances)
					r.With(middleware.RequirePermission(user.PermissionLeaveAdjustBalance)).Post("/{employeeId}/adjust", h.Leave.AdjustBalance)
				})
			})
		})
	})
	return r
}
