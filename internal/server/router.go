// Package server assembles the HTTP routes.
package server

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/pkg/httpx"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// RouteRegistrar is implemented by every domain handler.
type RouteRegistrar interface {
	Routes(r chi.Router)
}

type Options struct {
	AllowedOrigins []string
}

// Handlers groups the domain handlers mounted by NewRouter. Auth is mounted
// under /auth, the rest under /api behind JWT authentication.
type Handlers struct {
	Auth RouteRegistrar
	API  []RouteRegistrar
}

func NewRouter(h Handlers, maker auth.Maker, opts Options, log logger.ZapLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.LoggerMiddleware(log))
	r.Use(httpx.RecoverMiddleware(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", httpx.RequestIDHeader},
		ExposedHeaders:   []string{httpx.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(httpx.NotFound)
	r.MethodNotAllowed(httpx.MethodNotAllowed)

	if h.Auth != nil {
		r.Route("/auth", h.Auth.Routes)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(maker, log))
		for _, api := range h.API {
			api.Routes(r)
		}
	})

	return r
}

// AILimiter throttles the routes that call the model on every request.
// A non-positive limit disables throttling.
func AILimiter(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return nil
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.JSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "Request was throttled. Try again later.",
			})
		}),
	)
}
