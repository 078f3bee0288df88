package app

import (
	middle "lightwatch/internals/middleware"
	"lightwatch/internals/modules/heartbeat"
	"lightwatch/internals/modules/status"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(c *Container) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middle.Logger(c.Logger))
	r.Use(middle.Metrics(c.Metrics))
	r.Use(middleware.Timeout(5 * time.Second))

	// the reporting device only knows this path
	r.Mount("/heartbeat", heartbeat.Routes(c.heartbeatHandler, c.secretVerifier))

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.With(c.authMW.Handle).
			Mount("/status", status.Routes(c.statusHandler))
	})

	r.Method("GET", "/metrics", c.Metrics.Handler())

	return r
}
