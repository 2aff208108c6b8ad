package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/qmail-dev/qmail/backend/internal/setup"
	"github.com/qmail-dev/qmail/shared/logger"
	mw "github.com/qmail-dev/qmail/shared/middleware"
	"github.com/qmail-dev/qmail/shared/middleware/metrics"
)

// New creates the chi router with every API route.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(mw.RequestLogger(logger.Log))
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeaders(mw.APIContentSecurityPolicy, false))

	// any origin, any method, credentials allowed
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  func(r *http.Request, origin string) bool { return true },
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	}))

	h := deps.Handler

	r.Get("/", h.Root)
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Get("/users/{email}/key", h.PublicKey)
	r.Post("/send-email", h.SendEmail)
	r.Get("/inbox/{email}", h.Inbox)
	r.Get("/sent/{email}", h.Sent)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", metrics.Handler())

	return r
}
