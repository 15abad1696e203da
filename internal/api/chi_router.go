// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/salonpulse/internal/auth"
	"github.com/tomtom215/salonpulse/internal/authz"
	"github.com/tomtom215/salonpulse/internal/middleware"
	"github.com/tomtom215/salonpulse/internal/models"
)

// Router wires handlers to routes and middleware.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authn         *auth.Middleware
	authz         *authz.Middleware

	// devTokens mounts POST /api/v1/auth/token.
	devTokens bool
}

// NewRouter creates a router. devTokens enables the development token
// endpoint.
func NewRouter(handler *Handler, chiMw *ChiMiddleware, authn *auth.Middleware, authzMw *authz.Middleware, devTokens bool) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: chiMw,
		authn:         authn,
		authz:         authzMw,
		devTokens:     devTokens,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(middleware.DefaultSlowRequest))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.Gzip)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom("health", RateLimitHealth, time.Minute))
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	if router.devTokens {
		r.Route("/api/v1/auth", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom("auth", RateLimitToken, time.Minute))
			r.Post("/token", router.handler.IssueToken)
		})
	}

	// Authenticated analytics. Authorization runs per route so the salonID
	// path parameter is resolved before the policy check.
	r.Route("/api/v1/platform", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("platform"))
		r.Use(router.authn.Authenticate)

		r.With(router.authz.AuthorizeRequest).Get("/analytics", router.handler.PlatformAnalytics)
		r.With(router.authz.AuthorizeRequest).Get("/security", router.handler.PlatformSecurity)
	})

	r.Route("/api/v1/salons/{salonID}/customers", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("salons"))
		r.Use(router.authn.Authenticate)

		r.With(router.authz.AuthorizeRequest).Get("/insights", router.handler.CustomerInsights)
		r.With(router.authz.AuthorizeRequest).Get("/{customerID}/churn", router.handler.CustomerChurn)
		r.With(router.authz.AuthorizeRequest).Get("/{customerID}/lifetime-value", router.handler.CustomerLifetimeValue)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
