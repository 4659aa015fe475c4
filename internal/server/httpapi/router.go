package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/julianrazif/kanban-mono-repo/internal/logging"
	"github.com/julianrazif/kanban-mono-repo/internal/server/auth"
)

// NewRouter wires the middleware chain and the routes. Every request
// passes the authentication filter, then default-deny authorization;
// only registration and login are reachable anonymously.
func NewRouter(h *Handler, filter *auth.Filter, logger logging.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(logger))
	r.Use(middleware.Recoverer)
	r.Use(auth.SecurityHeaders)
	r.Use(filter.Middleware)
	r.Use(auth.Authorize(Unauthorized,
		auth.Route{Method: http.MethodPost, Path: auth.RegisterPath},
		auth.Route{Method: http.MethodPost, Path: auth.LoginPath},
	))

	r.Post(auth.RegisterPath, h.Register)
	r.Post(auth.LoginPath, h.Login)

	r.Route("/api/v1/boards", func(r chi.Router) {
		r.Get("/", h.ListBoards)
		r.Post("/", h.CreateBoard)
		r.Route("/{boardID}", func(r chi.Router) {
			r.Get("/", h.GetBoard)
			r.Put("/", h.UpdateBoard)
			r.Post("/snapshot", h.CreateSnapshot)
			r.Post("/columns", h.CreateColumn)
			r.Post("/cards", h.CreateCard)
			r.Put("/cards/{cardID}", h.UpdateCard)
		})
	})

	return r
}

// AccessLog logs one line per request with its status and duration.
func AccessLog(logger logging.Logger) func(http.Handler) http.Handler {
	logger = logger.With("module", "access")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
