package api

import (
	"judge_web/internal/api/handler"
	"judge_web/internal/api/middleware"
	"judge_web/internal/app/service"
	"judge_web/internal/app/worker"
	"judge_web/internal/common"
	"judge_web/internal/common/security"
	"judge_web/internal/platform/backend"
	"judge_web/internal/platform/metrics"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Services is everything the router wires into handlers.
type Services struct {
	Sessions   *service.SessionService
	Tasks      *service.TaskService
	Submission *service.SubmissionService
	Files      *service.FileService
	Statistics *service.StatisticsService
	Admin      *service.AdminService
	Relay      *worker.StatusRelay
}

type Options struct {
	Tokens         *security.SessionTokens
	Backend        *backend.Client
	Pages          *handler.Pages
	UploadMaxBytes int64
	RequestTimeout time.Duration
}

func NewRouter(svc Services, opts Options) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	// The backend's own API, OAuth flow included, stays on this origin.
	r.Handle("/api/*", opts.Backend.Proxy(opts.Tokens.CookieName()))

	authHandler := handler.NewAuthHandler(opts.Pages)
	problemHandler := handler.NewProblemHandler(opts.Pages, svc.Tasks, svc.Statistics)
	submissionHandler := handler.NewSubmissionHandler(opts.Pages, svc.Submission, svc.Relay, opts.UploadMaxBytes)
	fileHandler := handler.NewFileHandler(opts.Pages, svc.Files)
	teacherHandler := handler.NewTeacherHandler(opts.Pages, svc.Tasks, opts.UploadMaxBytes)
	adminHandler := handler.NewAdminHandler(opts.Pages, svc.Admin)

	r.Group(func(web chi.Router) {
		web.Use(opts.Tokens.Verifier())
		web.Use(middleware.Session(svc.Sessions, opts.Tokens))

		// Live streams are long-lived and must not be cut by the timeout.
		web.Group(submissionHandler.RegisterStreamRoutes)

		web.Group(func(pages chi.Router) {
			pages.Use(chiMiddleware.Timeout(opts.RequestTimeout))
			authHandler.RegisterRoutes(pages)
			problemHandler.RegisterRoutes(pages)
			submissionHandler.RegisterRoutes(pages)
			fileHandler.RegisterRoutes(pages)
			pages.Route("/teacher-panel", teacherHandler.RegisterRoutes)
			pages.Route("/admin-panel", adminHandler.RegisterRoutes)
		})
	})

	// Anything else lands on the login page, as in the browser router.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.Redirect(w, r, middleware.LoginPath)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
