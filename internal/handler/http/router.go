package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/sewahr/payroll-backend-go/internal/handler/http/middleware"
	"github.com/sewahr/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(jwtService jwt.Service, payrollHandler PayrollHandler, advanceHandler AdvanceHandler, env string) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "sewahr-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		// Every route requires an authenticated admin.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
			r.Use(middleware.AdminOnly)

			r.Route("/payroll/periods", func(r chi.Router) {
				r.Post("/", payrollHandler.CalculatePeriod)
				r.Get("/", payrollHandler.ListPeriods)

				r.Route("/{year}/{month}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetPeriod)
					r.Delete("/", payrollHandler.DeletePeriod)
					r.Post("/lock", payrollHandler.LockPeriod)
					r.Post("/unlock", payrollHandler.UnlockPeriod)
					r.Get("/summary", payrollHandler.GetPeriodSummary)

					r.Route("/edits", func(r chi.Router) {
						r.Put("/paid-status", payrollHandler.StagePaidStatus)
						r.Put("/advance-deduction", payrollHandler.StageAdvanceDeduction)
						r.Post("/commit", payrollHandler.CommitChanges)
						r.Post("/discard", payrollHandler.DiscardChanges)
					})
				})
			})

			r.Route("/advances", func(r chi.Router) {
				r.Post("/", advanceHandler.GrantAdvance)
				r.Get("/", advanceHandler.ListEmployeeAdvances)
				r.Delete("/{id}", advanceHandler.CancelAdvance)
			})
		})
	})
	return r
}
