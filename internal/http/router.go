// Package http is the access gateway: it authenticates each request into a
// (possibly anonymous) caller identity and routes operations to the account,
// catalog and order services.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(resolver UserResolver, accounts *AccountHandler, products *ProductHandler, categories *CategoryHandler, orders *OrderHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(AuthMiddleware(resolver))

	r.Post("/auth/register", accounts.Register)
	r.Post("/auth/login", accounts.Login)
	r.Get("/me", accounts.Me)
	r.Get("/users", accounts.List)

	r.Get("/products", products.List)
	r.Get("/products/{id}", products.Get)
	r.Post("/products", products.Create)
	r.Patch("/products/{id}", products.Update)
	r.Delete("/products/{id}", products.Delete)

	r.Get("/categories", categories.List)
	r.Get("/categories/{id}", categories.Get)
	r.Post("/categories", categories.Create)
	r.Patch("/categories/{id}", categories.Update)

	r.Get("/orders", orders.List)
	r.Get("/orders/{id}", orders.Get)
	r.Post("/orders", orders.Create)
	r.Patch("/orders/{id}/status", orders.UpdateStatus)

	return r
}
