// SPDX-License-Identifier: MIT

package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edreports/attrep/internal/api/middleware"
)

func (s *Server) routes() *chi.Mux {
	r := middleware.NewRouter(middleware.StackConfig{
		AllowedOrigins: s.cfg.AllowedOrigins,
		EnableMetrics:  true,
		EnableLogging:  true,
		RateLimitRPM:   s.cfg.RateLimitRPM,
	})

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.UploadRateLimit(s.cfg.UploadLimitRPM)).
			Post("/upload", s.handleUpload)
		r.Get("/status/{id}", s.handleStatus)
		r.Delete("/jobs/{id}", s.handleDeleteJob)
	})

	r.Handle("/reports/*", s.secureFileServer())

	return r
}
