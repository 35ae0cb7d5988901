package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/orders-service/internal/order-service/infra/httpx/middlewares"
)

// NewRouter mounts the API. metrics may be nil.
func NewRouter(handler *Handler, metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Health)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", handler.CreateOrder)
		r.Get("/", handler.ListOrders)
		r.Get("/workflows/failed", handler.ListFailedWorkflows)
		r.Get("/{orderId}", handler.GetOrderByID)
		r.Get("/{orderId}/workflow", handler.GetOrderWorkflow)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", handler.ListCustomers)
		r.Get("/{customerId}/shipping", handler.GetCustomerShipping)
	})
	return r
}
