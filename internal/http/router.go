package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/usbankcorp/bankd/internal/auth"
	accountHandler "github.com/usbankcorp/bankd/internal/http/account"
	adminHandler "github.com/usbankcorp/bankd/internal/http/admin"
	authHandler "github.com/usbankcorp/bankd/internal/http/auth"
	transferHandler "github.com/usbankcorp/bankd/internal/http/transfer"
)

func New(
	authSvc *auth.Service,
	authV1 *authHandler.Handler,
	accountsV1 *accountHandler.Handler,
	transfersV1 *transferHandler.Handler,
	adminV1 *adminHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(metricsMiddleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(authSvc.Authenticate)

			r.Route("/accounts", accountsV1.Routes)

			r.Route("/transfers", func(r chi.Router) {
				r.Use(auth.RequireCustomer)
				r.Use(middleware.AllowContentType("application/json"))
				transfersV1.Routes(r)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Use(middleware.AllowContentType("application/json"))
				adminV1.Routes(r)
			})
		})
	})

	return router
}
