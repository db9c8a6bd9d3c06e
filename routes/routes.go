// Package routes mounts the HTTP surface: middleware chain, health
// probes, auth endpoints and the permission-gated resource routes.
package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fleetdeskhq/fleetdesk/app"
	"github.com/fleetdeskhq/fleetdesk/authz"
	"github.com/fleetdeskhq/fleetdesk/handlers"
)

// Version is stamped at build time via -ldflags
var Version = "dev"

// SetupRoutes configures all application routes and middleware. Every
// resource route is wrapped in a permission check for its (resource,
// action) pair; the handler behind it never runs on a denied request.
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := handlers.NewAuthHandler(deps.Users, deps.Tokens,
		deps.Config.Auth.TokenTTL, deps.Config.IsProduction(), deps.Logger)
	userHandler := handlers.NewUserHandler(deps.Users, deps.Audit, deps.Logger)
	driverHandler := handlers.NewDriverHandler(deps.Drivers, deps.Audit, deps.Logger)
	vehicleHandler := handlers.NewVehicleHandler(deps.Vehicles, deps.Audit, deps.Logger)
	issueHandler := handlers.NewIssueHandler(deps.Issues, deps.Audit, deps.Logger)
	auditHandler := handlers.NewAuditHandler(deps.Audit, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.DB, Version, deps.Logger)

	// Health check endpoints
	r.Get("/healthz", healthHandler.HandleHealthz)
	r.Get("/readyz", healthHandler.HandleReadyz)

	perm := deps.Permissions

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)

			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RequireAuth)
				r.Get("/me", authHandler.HandleMe)
			})
		})

		// Account management
		r.Route("/users", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.With(perm.Require(authz.ResourceUsers, authz.ActionRead)).Get("/", userHandler.HandleList)
			r.With(perm.Require(authz.ResourceUsers, authz.ActionCreate)).Post("/", userHandler.HandleCreate)
			r.With(perm.Require(authz.ResourceUsers, authz.ActionRead)).Get("/{id}", userHandler.HandleGet)
			r.With(perm.Require(authz.ResourceUsers, authz.ActionWrite)).Put("/{id}", userHandler.HandleUpdate)
			r.With(perm.Require(authz.ResourceUsers, authz.ActionDelete)).Delete("/{id}", userHandler.HandleDelete)
		})

		// Driver management
		r.Route("/drivers", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.With(perm.Require(authz.ResourceDrivers, authz.ActionRead)).Get("/", driverHandler.HandleList)
			r.With(perm.Require(authz.ResourceDrivers, authz.ActionCreate)).Post("/", driverHandler.HandleCreate)
			r.With(perm.Require(authz.ResourceDrivers, authz.ActionRead)).Get("/{id}", driverHandler.HandleGet)
			r.With(perm.Require(authz.ResourceDrivers, authz.ActionWrite)).Put("/{id}", driverHandler.HandleUpdate)
			r.With(perm.Require(authz.ResourceDrivers, authz.ActionDelete)).Delete("/{id}", driverHandler.HandleDelete)
		})

		// Vehicle inventory
		r.Route("/vehicles", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.With(perm.Require(authz.ResourceVehicles, authz.ActionRead)).Get("/", vehicleHandler.HandleList)
			r.With(perm.Require(authz.ResourceVehicles, authz.ActionCreate)).Post("/", vehicleHandler.HandleCreate)
			r.With(perm.Require(authz.ResourceVehicles, authz.ActionRead)).Get("/{id}", vehicleHandler.HandleGet)
			r.With(perm.Require(authz.ResourceVehicles, authz.ActionWrite)).Put("/{id}", vehicleHandler.HandleUpdate)
			r.With(perm.Require(authz.ResourceVehicles, authz.ActionDelete)).Delete("/{id}", vehicleHandler.HandleDelete)
		})

		// Issue tracking
		r.Route("/issues", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.With(perm.Require(authz.ResourceIssues, authz.ActionRead)).Get("/", issueHandler.HandleList)
			r.With(perm.Require(authz.ResourceIssues, authz.ActionCreate)).Post("/", issueHandler.HandleCreate)
			r.With(perm.Require(authz.ResourceIssues, authz.ActionRead)).Get("/{id}", issueHandler.HandleGet)
			r.With(perm.Require(authz.ResourceIssues, authz.ActionWrite)).Put("/{id}", issueHandler.HandleUpdate)
			r.With(perm.Require(authz.ResourceIssues, authz.ActionDelete)).Delete("/{id}", issueHandler.HandleDelete)
		})

		// Audit trail; reading it is an account-administration concern,
		// so it rides on the users:read grant
		r.Route("/audit-logs", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.With(perm.Require(authz.ResourceUsers, authz.ActionRead)).Get("/", auditHandler.HandleList)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not_found","message":"endpoint not found"}`))
	})

	return r
}
