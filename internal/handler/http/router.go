package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/campus-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/campus-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the process settings the router needs.
type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	Version        string
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, approvalHandler ApprovalHandler, attendanceHandler AttendanceHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "campus-attendance"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
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
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)

		r.Route("/approvals", func(r chi.Router) {
			r.With(middleware.RequirePermission(user.PermissionRequestResolve)).Post("/resolve", approvalHandler.Resolve)
		})

		r.Route("/requests/{id}", func(r chi.Router) {
			r.With(middleware.RequirePermission(user.PermissionRequestViewOwn)).Get("/resolution", approvalHandler.GetResolution)

			r.Route("/stages/{stage}", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionRequestViewAll)).Get("/", approvalHandler.GetStageStatus)
				r.With(
					middleware.RequirePermission(user.PermissionRequestDecide),
					middleware.RequireStageRole("stage"),
				).Post("/decision", approvalHandler.DecideStage)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionAttendanceClassify))
			r.Post("/classify", attendanceHandler.Classify)
			r.Post("/aggregate", attendanceHandler.Aggregate)
		})

		r.Route("/students/{id}", func(r chi.Router) {
			r.Use(middleware.RequireStudentAccess("id"))

			r.With(middleware.RequirePermission(user.PermissionRequestViewOwn)).Get("/requests", approvalHandler.ListStudentRequests)

			r.Route("/attendance", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))
				r.Get("/", attendanceHandler.GetStudentStatistics)
				r.Get("/overview", attendanceHandler.GetStudentOverview)
			})
		})
	})

	return r
}
