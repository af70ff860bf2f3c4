package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/customer-service/internal/controller"
	"github.com/unclebandit/customer-service/internal/handler"
)

func newRouter(customers *controller.CustomerController, system *handler.SystemHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(handler.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", system.Health)
	r.Get("/openapi.json", system.OpenAPI)

	// Customer routes
	r.Route("/customer", func(r chi.Router) {
		r.Post("/add-customer", customers.AddCustomer)
	})

	return r
}
