package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/umeloans/lead-capture/internal/infra/http/middleware"
)

type RouterConfig struct {
	Lead   *LeadHandler
	OTP    *OTPHandler
	Health *HealthHandler
	// Auth guards the lead read endpoint. Nil leaves the endpoint unmounted.
	Auth           *middleware.AuthMiddleware
	AllowedOrigins []string
	// TrustProxy rewrites RemoteAddr from the forwarding headers, which the
	// rate limiter then keys on.
	TrustProxy bool
	Logger     *logrus.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", cfg.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/reference-data", ReferenceDataHandler)

		r.Post("/loan-application", cfg.Lead.SubmitApplication)
		r.Get("/loan-application", cfg.Lead.ApplicationInfo)

		r.Post("/verify-otp", cfg.OTP.Verify)
		r.Put("/verify-otp", cfg.OTP.Resend)

		if cfg.Auth != nil {
			r.With(cfg.Auth.RequireApplicationToken).Get("/leads/{id}", cfg.Lead.GetLead)
		}
	})

	return r
}
